package loadtest

import (
	"bufio"
	"fmt"
	"io"
	"os/exec"

	"github.com/rs/zerolog"
)

// Process is the server under test, started in its own process group so
// Kill takes its children down with it.
type Process struct {
	cmd *exec.Cmd
	log zerolog.Logger
}

func StartProcess(command []string, log zerolog.Logger) (*Process, error) {
	if len(command) == 0 {
		return nil, fmt.Errorf("empty server command")
	}

	cmd := exec.Command(command[0], command[1:]...)
	setProcessGroup(cmd)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", command[0], err)
	}

	p := &Process{cmd: cmd, log: log}
	go p.forward(stdout, "server")
	go p.forward(stderr, "server_error")
	log.Info().Int("pid", cmd.Process.Pid).Strs("command", command).Msg("server process started")
	return p, nil
}

func (p *Process) Pid() int {
	return p.cmd.Process.Pid
}

func (p *Process) Kill() error {
	if p == nil || p.cmd.Process == nil {
		return nil
	}
	if err := killProcessGroup(p.cmd); err != nil {
		return fmt.Errorf("kill process group %d: %w", p.Pid(), err)
	}
	_ = p.cmd.Wait()
	return nil
}

func (p *Process) forward(r io.Reader, stream string) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		p.log.Info().Str("stream", stream).Msg(scanner.Text())
	}
}

package loadtest

import (
	"context"
	"fmt"
	"io"
	"os/exec"
)

type Runner interface {
	Run(ctx context.Context, scenario, output string) error
}

type ArtilleryRunner struct {
	Binary string
	Stdout io.Writer
	Stderr io.Writer
}

func (r ArtilleryRunner) Run(ctx context.Context, scenario, output string) error {
	bin := r.Binary
	if bin == "" {
		bin = "artillery"
	}
	cmd := exec.CommandContext(ctx, bin, "run", "--quiet", scenario, "-o", output)
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s run %s: %w", bin, scenario, err)
	}
	return nil
}

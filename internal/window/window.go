// Package window provides the optional compact-mode collaborator used while a
// focus session runs.
package window

import (
	"context"
	"fmt"
	"os/exec"
	"sync"

	"github.com/rs/zerolog"
)

// Controller switches the host window between its normal and compact layout.
type Controller interface {
	SetCompactMode(ctx context.Context, enabled bool) error
}

// SetCompactMode calls c when it is non-nil. An absent controller is a no-op.
func SetCompactMode(ctx context.Context, c Controller, enabled bool) error {
	if c == nil {
		return nil
	}
	return c.SetCompactMode(ctx, enabled)
}

// CommandController runs a shell command for each transition, for example a
// window-manager call that resizes the terminal. Commands start
// asynchronously; only failures to launch are returned.
type CommandController struct {
	CompactCommand string
	RestoreCommand string
	Shell          string

	log zerolog.Logger
	wg  sync.WaitGroup
}

// NewCommandController returns a controller, or nil when neither command is set.
func NewCommandController(compact, restore string, log zerolog.Logger) *CommandController {
	if compact == "" && restore == "" {
		return nil
	}
	return &CommandController{
		CompactCommand: compact,
		RestoreCommand: restore,
		Shell:          "sh",
		log:            log,
	}
}

// SetCompactMode implements Controller
func (c *CommandController) SetCompactMode(ctx context.Context, enabled bool) error {
	command := c.RestoreCommand
	if enabled {
		command = c.CompactCommand
	}
	if command == "" {
		return nil
	}

	cmd := exec.CommandContext(ctx, c.Shell, "-c", command)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start window command: %w", err)
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		if err := cmd.Wait(); err != nil {
			c.log.Warn().Err(err).Bool("compact", enabled).Str("command", command).Msg("window command failed")
			return
		}
		c.log.Debug().Bool("compact", enabled).Msg("window command finished")
	}()
	return nil
}

// Wait blocks until every launched command has exited.
func (c *CommandController) Wait() {
	c.wg.Wait()
}

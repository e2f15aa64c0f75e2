package diag

import (
	"context"
	"strings"
)

// RepairCache rebuilds the font cache where the platform has a safe command
// (fc-cache -f -v on Linux) and prints the manual steps everywhere else.
func (c *Checker) RepairCache(ctx context.Context) {
	if c.profile.CacheRepair != nil {
		c.narrate("%s", c.styles.Section.Render("Rebuilding the font cache..."))
		res := c.runner.Run(ctx, *c.profile.CacheRepair)
		if res.OK() {
			c.narrate("%s", c.styles.OK.Render("font cache rebuilt"))
			c.report.AddSuggestion("Font cache was rebuilt; restart affected applications")
			return
		}
		c.report.AddIssue("font cache rebuild failed: %v", res.Err)
		if out := strings.TrimSpace(res.Stderr); out != "" {
			c.narrate("  %s", c.styles.Issue.Render(out))
		}
		return
	}
	c.printSteps("Rebuild the font cache manually:", c.profile.CacheRepairSteps)
}

// RestoreDefaults prints the platform's guidance for restoring the default
// font set. It performs no file operations.
func (c *Checker) RestoreDefaults() {
	c.printSteps("Restore the default fonts:", c.profile.RestoreSteps)
}

// RepairScaling prints the display scaling guidance. When apply is true and
// the platform has a single settings-write command, it runs that command.
func (c *Checker) RepairScaling(ctx context.Context, apply bool) {
	c.printSteps("Fix display scaling:", c.profile.ScalingRepairSteps)
	if !apply || c.profile.ScalingRepair == nil {
		return
	}
	c.narrate("%s", c.styles.Section.Render("Resetting the scaling factor..."))
	res := c.runner.Run(ctx, *c.profile.ScalingRepair)
	if res.OK() {
		c.narrate("%s", c.styles.OK.Render("scaling factor reset"))
		return
	}
	c.report.AddIssue("scaling reset failed: %v", res.Err)
}

func (c *Checker) printSteps(title string, steps []string) {
	if len(steps) == 0 {
		c.narrate("%s", c.styles.Dim.Render("no guidance available for this platform"))
		return
	}
	c.narrate("%s", c.styles.Section.Render(title))
	for _, step := range steps {
		c.narrate("  %s", step)
	}
}

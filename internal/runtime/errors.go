package runtime

import (
	"github.com/manav03panchal/mapundo/internal/errors"
	"github.com/manav03panchal/mapundo/internal/logging"
)

// FormatError formats an error with its suggestion, if any.
func FormatError(err error) string {
	return errors.FormatByCategory(err)
}

// PrintError reports err in the context's output format. Engine state
// rejections print as warnings, everything else as errors.
func (c *Context) PrintError(err error) {
	if err == nil {
		return
	}
	category := errors.Classify(err)
	c.logError(err, category)
	if c.IsJSON() {
		_ = c.JSONFormatter().PrintError("error", err.Error(), category.String(), errors.GetSuggestion(err))
		return
	}

	cli := c.CLIFormatter()
	if category == errors.CategoryState {
		cli.Warning(FormatError(err))
		return
	}
	cli.Error(FormatError(err))
}

// logError records the full cause chain at debug level.
func (c *Context) logError(err error, category errors.Category) {
	attrs := []any{logging.KeyError, err, "category", category.String(), "chain", errors.Chain(err)}
	if se, ok := errors.AsSystemError(err); ok && se.Op != "" {
		attrs = append(attrs, logging.KeyOperation, se.Op)
	}
	c.Logger.Debug("reporting error", attrs...)
}

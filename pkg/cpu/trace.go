package cpu

import (
	"fmt"
	"os"
)

// Diagnostic tracing. Lines are formatted into a per-instance buffer and
// delivered to the installed handler, or to the configured sink when no
// handler is set, or to standard output as a last resort. The buffer is
// reused across emissions.

func (c *CPU) tracef(level int, format string, args ...any) {
	if c.debugLevel < level {
		return
	}
	c.traceBuf = c.traceBuf[:0]
	c.traceBuf = fmt.Appendf(c.traceBuf, format, args...)
	c.traceBuf = append(c.traceBuf, '\n')
	switch {
	case c.debugFn != nil:
		c.debugFn(c, c.traceBuf)
	case c.debugSink != nil:
		c.debugSink.Write(c.traceBuf)
	default:
		os.Stdout.Write(c.traceBuf)
	}
}

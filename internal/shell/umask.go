package shell

import (
	"fmt"
	"syscall"
	"time"
)

// applyUmask installs mask as the process umask via the syscall the
// teacher's platform code reaches for directly (spec's domain stack
// calls out os/syscall as the one concern no corpus repo wraps in a
// library), returning the previous mask the way syscall.Umask already
// does.
func applyUmask(mask int) int {
	return syscall.Umask(mask)
}

// formatDuration renders a duration the way the `times` builtin prints
// POSIX "MmS.SSSs" pairs.
func formatDuration(d time.Duration) string {
	m := int(d.Minutes())
	s := d.Seconds() - float64(m)*60
	return fmt.Sprintf("%dm%.3fs", m, s)
}

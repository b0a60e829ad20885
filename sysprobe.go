// sysprobe.go - process-wide system probe (§4's "System probe")
//
// (c) 2024 Sudhi Herle <sudhi@herle.net>
//
// Licensing Terms: GPLv2
//
// If you need a commercial license for this work, please contact
// the author.
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

package mmv

import (
	"os"
	"os/signal"
	"sync"
	"syscall"

	"golang.org/x/sys/unix"
)

// SysProbe captures the process-wide facts §4 says are "initialized once":
// real/effective uid, home directory, NAME_MAX, and an installed SIGINT
// handler the executor polls cooperatively (§4.5, §5).
type SysProbe struct {
	Uid     uint32
	Euid    uint32
	IsRoot  bool
	Home    string
	NameMax int

	sigCh chan os.Signal
	once  sync.Once
}

// NewSysProbe builds one SysProbe for the current process. NameMax is
// unix.NAME_MAX (255), the value every mainstream local filesystem
// (ext4/xfs/btrfs/ufs/zfs) reports for a single path component; §4.1's
// bad-target-name check uses it as the component-length bound.
func NewSysProbe() *SysProbe {
	euid := uint32(os.Geteuid())
	return &SysProbe{
		Uid:     uint32(os.Getuid()),
		Euid:    euid,
		IsRoot:  euid == 0,
		Home:    os.Getenv("HOME"),
		NameMax: unix.NAME_MAX,
	}
}

// InstallInterrupt registers the process's SIGINT handler, per §4.5 and §5:
// a pending interrupt is only ever cooperatively polled between operations,
// never used to unwind a half-finished syscall. Calling it more than once
// on the same SysProbe is a no-op; it returns the channel the executor
// should poll.
func (sp *SysProbe) InstallInterrupt() chan os.Signal {
	sp.once.Do(func() {
		sp.sigCh = make(chan os.Signal, 1)
		signal.Notify(sp.sigCh, os.Interrupt, syscall.SIGINT)
	})
	return sp.sigCh
}

// StopInterrupt undoes InstallInterrupt, for tests and for a clean-exit CLI.
func (sp *SysProbe) StopInterrupt() {
	if sp.sigCh != nil {
		signal.Stop(sp.sigCh)
	}
}

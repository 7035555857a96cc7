package constants

import (
	"io/fs"
	"time"
)

const (
	// DefaultDirPerm is the default permission used when creating directories.
	DefaultDirPerm fs.FileMode = 0o755
	// DefaultFilePerm is the default permission used when creating files.
	DefaultFilePerm fs.FileMode = 0o644
)

const (
	// NavigationTimeout bounds how long a page navigation may take to reach
	// initial DOM construction before the scan is aborted.
	NavigationTimeout = 45 * time.Second
	// QuiesceTimeout caps the best-effort wait for network quiescence.
	QuiesceTimeout = 10 * time.Second
	// PreConsentSettle is the fixed delay before the pre-consent snapshot,
	// giving tag managers time to set their initial cookies.
	PreConsentSettle = 6 * time.Second
	// PostConsentSettle is the fixed delay before the post-consent snapshot.
	PostConsentSettle = 2 * time.Second
	// ConsentVisibleTimeout bounds each matcher's visibility probe.
	ConsentVisibleTimeout = 500 * time.Millisecond
	// ConsentClickTimeout bounds the click attempt on a matched control.
	ConsentClickTimeout = 2 * time.Second
	// ConsentPostClickDelay is the fixed pause after a consent control is found.
	ConsentPostClickDelay = 1500 * time.Millisecond
)

package bitrank

import "go.uber.org/zap"

// logger receives construction-time diagnostics only (buffer size and
// backing strategy, bit vector geometry, select index parameters). Nothing on a hot query
// path logs. Defaults to zap's no-op logger so library consumers never pay
// for logging they didn't ask for.
var logger = zap.NewNop()

// SetLogger installs l as the package-level diagnostic logger. Passing nil
// restores the no-op default.
func SetLogger(l *zap.Logger) {
	if l == nil {
		logger = zap.NewNop()
		return
	}
	logger = l
}

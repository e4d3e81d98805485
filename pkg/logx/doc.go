// Package logx is a thin structured-logging facade over zerolog.
//
// It exists so the rest of the codebase can log through a stable API while
// the Service swaps sinks and levels at runtime (config reload).
package logx

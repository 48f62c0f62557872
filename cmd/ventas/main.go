// Package main provides the ventas command, which analyzes a salesperson
// workbook and writes charts plus a summary report.
//
// Usage:
//
//	ventas [archivo.xlsx] [--output-dir graficos] [--top 5]
package main

import (
	"os"

	"github.com/rs/zerolog"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	os.Exit(Execute())
}

package main

// Set via -ldflags at build time
var (
	version  = "0.1.0"
	buildSHA = ""
)

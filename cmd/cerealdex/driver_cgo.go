//go:build cgo

package main

// Registers the "sqlite3" driver selected with --sqlite-driver sqlite3
import _ "github.com/mattn/go-sqlite3"

//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binary  = "youdaocard"
	mainPkg = "./cmd/youdaocard"
)

// Default target to run when none is specified.
var Default = Build

// Build compiles the youdaocard binary.
func Build() error {
	fmt.Println("Building", binary)
	// go-sqlite3 needs cgo.
	return sh.RunWith(map[string]string{"CGO_ENABLED": "1"}, "go", "build", "-o", binary, mainPkg)
}

// Test runs all tests with the race detector.
func Test() error {
	return sh.RunV("go", "test", "-race", "./...")
}

// Vet runs go vet.
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Install builds and installs the binary into GOPATH/bin.
func Install() error {
	mg.Deps(Test)
	return sh.RunV("go", "install", mainPkg)
}

// Clean removes build artifacts.
func Clean() error {
	fmt.Println("Cleaning")
	return os.RemoveAll(filepath.Join(".", binary))
}

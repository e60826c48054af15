// Package testutil holds fakes and helpers shared by package tests.
package testutil

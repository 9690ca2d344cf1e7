// Package venv manages the lifecycle of the Python virtual environment.
//
// The virtual environment directory is the launcher's only persistent
// artifact. The invariant, inherited from the original launcher, is that
// once created the directory is reused on every subsequent run — creation
// is strictly idempotent.
//
// "Activation" is handled the portable way: rather than sourcing the
// shell-specific activation script, every later interpreter and pip
// invocation resolves through the environment's own python binary
// (bin/python on Unix, Scripts\python.exe on Windows), which is exactly
// what activation arranges for a shell session.
//
// A small YAML state file inside the environment records which interpreter
// created it and which requirement set was last installed, so status and
// doctor commands can detect staleness. Environments without a state file
// (created by hand or by the old launcher) remain fully usable.
package venv

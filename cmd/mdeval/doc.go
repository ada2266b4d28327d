// Package main hosts the mdeval CLI entrypoint and command graph.
//
// The Cobra command tree loads RTTM and UEM inputs, scores them through the
// evaluation runner, renders md-eval style reports and manages the optional
// run history. Configuration resolution and logger setup happen once per
// invocation in commandContext so subcommands only deal with their own flags.
//
// Scoring logic belongs in the internal packages; commands here stay thin.
package main

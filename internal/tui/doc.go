// Package tui provides terminal output and prompt utilities for hostprov.
//
// Splog writes plain progress lines to the console and, when a log file is
// configured, a timestamped copy of every line including debug output.
// Confirmers ask yes/no questions through survey and refuse to prompt when
// there is no terminal.
package tui

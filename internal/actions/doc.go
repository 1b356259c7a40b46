// Package actions holds the provisioning steps shared by the mysql and nginx
// actions: confirmation, backup, package removal, purge, firewall rules and
// the final-state notes.
//
// Key patterns:
//   - Steps accept runtime.Context which provides Runner, Splog and Settings
//   - Every step records exactly one result in the output.Report
//   - Advisory steps never return errors; fatal steps return the error from
//     Report.Abort so the caller can stop
package actions

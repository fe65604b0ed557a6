// Command kurve is a titration curve viewer for spreadsheet measurements.
package main

import "github.com/aaronsalm/kurve/cmd"

func main() {
	cmd.Execute()
}

// Command budget tracks expenses and loans and gives budgeting advice.
package main

import "github.com/theirongolddev/budget/cmd"

func main() {
	cmd.Execute()
}

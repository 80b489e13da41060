// Command budgetctl builds plans, calendars and redistributions from JSON
// files without a server or database.
package main

func main() {
	Execute()
}

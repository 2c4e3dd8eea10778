package main

import "github.com/capyflow/aq/cmd"

func main() {
	cmd.Execute()
}

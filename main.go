package main

import "github.com/rachmanhakim/hr-management/cmd"

func main() {
	cmd.Execute()
}

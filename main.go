package main

import "taskflow.dev/taskflow/cmd"

func main() {
	cmd.Execute()
}

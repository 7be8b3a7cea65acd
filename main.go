package main

import "github.com/nikogura/job-assistant/cmd"

func main() {
	cmd.Execute()
}

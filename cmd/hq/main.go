package main

import "habitquest/cmd/hq/root"

func main() {
	root.Execute()
}

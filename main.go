/*
Copyright © 2025 Medboard Contributors
*/
package main

import "github.com/trobanga/medboard/cmd"

func main() {
	cmd.Execute()
}

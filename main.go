/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/madmaxieee/cardtext/cmd"

func main() {
	cmd.Execute()
}

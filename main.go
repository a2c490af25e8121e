/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/credon/authserver/cmd"

func main() {
	cmd.Execute()
}

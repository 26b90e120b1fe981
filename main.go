/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import "ragsmith/cmd"

func main() {
	cmd.Execute()
}

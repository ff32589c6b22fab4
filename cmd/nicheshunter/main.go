// Package main is the entry point for Niches Hunter.
package main

func main() {
	Execute()
}

//go:build windows

package main

func main() {
	run()
}

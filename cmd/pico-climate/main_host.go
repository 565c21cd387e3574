//go:build !(rp2040 || rp2350)

package main

import "os"

func main() {
	println("pico-climate runs on rp2040/rp2350 builds")
	os.Exit(2)
}

// Command eartrainer is a terminal ear-training tool: it plays a cadence to
// set the key, then a note, and grades the degree you answer with.
package main

func main() {
	Execute()
}

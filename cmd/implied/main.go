// Command implied serves and edits implication metadata files: JSON state
// machine descriptions whose context block drives test-data generation.
package main

func main() {
	Execute()
}

// Command contactrelay serves the contact form and relays submissions to the
// configured delivery provider.
package main

import (
	"context"
	"os"
)

func main() {
	os.Exit(execute(context.Background(), os.Args[1:]))
}

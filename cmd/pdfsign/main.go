// Command pdfsign signs and verifies PDF documents using detached
// PKCS#7/CMS signatures spliced in via an incremental update.
package main

import (
	"github.com/sigspan/pdfsign/cli"
)

func main() {
	cli.Run()
}

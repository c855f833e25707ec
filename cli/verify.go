package cli

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/sigspan/pdfsign/verify"
)

func VerifyCommand() {
	verifyFlags := flag.NewFlagSet("verify", flag.ExitOnError)

	var checkRevocation bool
	verifyFlags.BoolVar(&checkRevocation, "check-revocation", false, "Check the embedded revocation-info archive, if present")

	verifyFlags.Usage = func() {
		fmt.Printf("Usage: %s verify [options] <input.pdf>\n\n", os.Args[0])
		fmt.Println("Verify the digital signature(s) of a PDF file")
		fmt.Println("\nOptions:")
		verifyFlags.PrintDefaults()
		fmt.Println("\nExamples:")
		fmt.Printf("  %s verify document.pdf\n", os.Args[0])
	}

	if err := verifyFlags.Parse(os.Args[2:]); err != nil {
		log.Fatalf("failed to parse verify flags: %v", err)
	}

	if verifyFlags.NArg() < 1 {
		verifyFlags.Usage()
		osExit(1)
		return
	}

	VerifyPDF(verifyFlags.Arg(0), checkRevocation)
}

func VerifyPDF(input string, checkRevocation bool) {
	pdf, err := os.ReadFile(input)
	if err != nil {
		log.Print(err)
		osExit(1)
		return
	}

	results, err := verify.Verify(pdf, verify.Options{CheckRevocation: checkRevocation})
	if err != nil {
		fmt.Println(err)
		osExit(1)
		return
	}

	allValid := true
	for _, r := range results {
		if !r.ValidSignature {
			allValid = false
		}
	}

	output := struct {
		Valid      bool            `json:"valid"`
		Signatures []verify.Result `json:"signatures"`
	}{
		Valid:      allValid,
		Signatures: results,
	}

	jsonData, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		fmt.Println(err)
		osExit(1)
		return
	}
	fmt.Println(string(jsonData))
}

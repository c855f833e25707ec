package cli

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/kms"

	"github.com/sigspan/pdfsign/identity"
	"github.com/sigspan/pdfsign/splice"
)

func SignCommand() {
	signFlags := flag.NewFlagSet("sign", flag.ExitOnError)

	var name, location, reason, contact, pfxPassword, tsaURL string
	var kmsKeyID, leafCertPath, chainCertsPath string

	signFlags.StringVar(&name, "name", "", "Name of the signatory (not written to the signature; /Name is the signing certificate's common name)")
	signFlags.StringVar(&location, "location", "", "Location of the signatory")
	signFlags.StringVar(&reason, "reason", "", "Reason for signing")
	signFlags.StringVar(&contact, "contact", "", "Contact information for signatory")
	signFlags.StringVar(&pfxPassword, "password", "", "Password protecting the PKCS#12 identity file")
	signFlags.StringVar(&tsaURL, "tsa", "", "URL for a Time-Stamp Authority")
	signFlags.StringVar(&kmsKeyID, "kms-key-id", "", "AWS KMS key ID or ARN; selects KMS-backed signing instead of a PKCS#12 identity file")
	signFlags.StringVar(&leafCertPath, "leaf-cert", "", "PEM file holding the leaf certificate for the KMS key (required with -kms-key-id)")
	signFlags.StringVar(&chainCertsPath, "chain-certs", "", "PEM file holding the issuing chain for the KMS key (required with -kms-key-id)")

	signFlags.Usage = func() {
		fmt.Printf("Usage: %s sign [options] <input.pdf> <output.pdf> [identity.p12]\n\n", os.Args[0])
		fmt.Println("Sign a PDF file with a digital signature")
		fmt.Println("\nOptions:")
		signFlags.PrintDefaults()
		fmt.Println("\nExamples:")
		fmt.Printf("  %s sign -name \"John Doe\" input.pdf output.pdf identity.p12\n", os.Args[0])
		fmt.Printf("  %s sign -kms-key-id alias/pdfsign -leaf-cert leaf.pem -chain-certs chain.pem input.pdf output.pdf\n", os.Args[0])
	}

	if err := signFlags.Parse(os.Args[2:]); err != nil {
		log.Fatalf("failed to parse sign flags: %v", err)
	}

	if signFlags.NArg() < 2 {
		signFlags.Usage()
		osExit(1)
		return
	}

	input := signFlags.Arg(0)
	output := signFlags.Arg(1)

	cfg := splice.Config{
		Info: splice.Info{
			Name:        name,
			Location:    location,
			Reason:      reason,
			ContactInfo: contact,
		},
		TSA: splice.TSA{URL: tsaURL},
	}

	if kmsKeyID != "" {
		if leafCertPath == "" {
			log.Fatalf("-leaf-cert is required with -kms-key-id")
		}
		SignPDFWithKMS(input, output, kmsKeyID, leafCertPath, chainCertsPath, cfg)
		return
	}

	if signFlags.NArg() < 3 {
		signFlags.Usage()
		osExit(1)
		return
	}

	SignPDF(input, output, signFlags.Arg(2), pfxPassword, cfg)
}

// SignPDF reads input, signs it with the PKCS#12 identity at pfxPath, and
// writes the result to output.
func SignPDF(input, output, pfxPath, pfxPassword string, cfg splice.Config) {
	pdf, err := os.ReadFile(input)
	if err != nil {
		log.Fatalf("reading %s: %v", input, err)
	}

	der, err := os.ReadFile(pfxPath)
	if err != nil {
		log.Fatalf("reading %s: %v", pfxPath, err)
	}

	id, err := identity.LoadPKCS12(der, pfxPassword)
	if err != nil {
		log.Fatalf("loading identity: %v", err)
	}

	signAndWrite(input, output, pdf, id, cfg)
}

// SignPDFWithKMS reads input, signs it with an AWS KMS-backed identity built
// from keyID and the PEM certificates at leafCertPath/chainCertsPath, and
// writes the result to output.
func SignPDFWithKMS(input, output, keyID, leafCertPath, chainCertsPath string, cfg splice.Config) {
	pdf, err := os.ReadFile(input)
	if err != nil {
		log.Fatalf("reading %s: %v", input, err)
	}

	leafPEM, err := os.ReadFile(leafCertPath)
	if err != nil {
		log.Fatalf("reading %s: %v", leafCertPath, err)
	}

	var chainPEM []byte
	if chainCertsPath != "" {
		chainPEM, err = os.ReadFile(chainCertsPath)
		if err != nil {
			log.Fatalf("reading %s: %v", chainCertsPath, err)
		}
	}

	awsCfg, err := config.LoadDefaultConfig(context.Background())
	if err != nil {
		log.Fatalf("loading aws config: %v", err)
	}
	client := kms.NewFromConfig(awsCfg)

	id, err := identity.FromAWSKMS(client, keyID, leafPEM, chainPEM)
	if err != nil {
		log.Fatalf("loading kms identity: %v", err)
	}

	signAndWrite(input, output, pdf, id, cfg)
}

func signAndWrite(input, output string, pdf []byte, id splice.Identity, cfg splice.Config) {
	signed, err := splice.Sign(pdf, id, cfg)
	if err != nil {
		log.Fatalf("signing %s: %v", input, err)
	}

	if err := os.WriteFile(output, signed, 0o644); err != nil {
		log.Fatalf("writing %s: %v", output, err)
	}

	log.Println("signed PDF written to " + output)
}

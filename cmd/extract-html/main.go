// Command extract-html turns definition-style HTML pages into raw
// instruction/output JSONL records for the morsel pipeline. It is a
// thin ingestion adapter: it extracts definition-list pairs and
// heading/paragraph pairs and leaves all cleaning to the pipeline.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"golang.org/x/net/html"
)

type rawRecord struct {
	Instruction string `json:"instruction"`
	Output      string `json:"output"`
}

type multiFlag []string

func (m *multiFlag) String() string { return strings.Join(*m, ",") }

func (m *multiFlag) Set(v string) error {
	*m = append(*m, v)
	return nil
}

func main() {
	var inputs multiFlag
	flag.Var(&inputs, "input", "Input HTML file (repeatable, required)")
	output := flag.String("output", "", "Output JSONL file (required)")
	flag.Parse()

	if len(inputs) == 0 {
		log.Fatal("-input required")
	}
	if *output == "" {
		log.Fatal("-output required")
	}

	outFile, err := os.Create(*output)
	if err != nil {
		log.Fatal("create output file:", err)
	}
	defer outFile.Close()

	encoder := json.NewEncoder(outFile)
	total := 0

	for _, path := range inputs {
		records, err := extractFile(path)
		if err != nil {
			log.Fatalf("extract %s: %v", path, err)
		}
		for _, rec := range records {
			if err := encoder.Encode(rec); err != nil {
				log.Fatal("write record:", err)
			}
		}
		log.Printf("%s: %d candidate records", path, len(records))
		total += len(records)
	}

	log.Printf("Wrote %d records to %s", total, *output)
}

func extractFile(path string) ([]rawRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc, err := html.Parse(f)
	if err != nil {
		return nil, err
	}

	var records []rawRecord
	records = append(records, definitionPairs(doc)...)
	records = append(records, headingPairs(doc)...)
	return records, nil
}

// definitionPairs pairs each <dt> term with its following <dd> body.
func definitionPairs(doc *html.Node) []rawRecord {
	var records []rawRecord

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "dl" {
			term := ""
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type != html.ElementNode {
					continue
				}
				switch c.Data {
				case "dt":
					term = nodeText(c)
				case "dd":
					body := nodeText(c)
					if term != "" && body != "" {
						records = append(records, rawRecord{
							Instruction: fmt.Sprintf("What is %s?", term),
							Output:      body,
						})
					}
					term = ""
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return records
}

// headingPairs pairs each h2/h3 heading with its first following
// paragraph.
func headingPairs(doc *html.Node) []rawRecord {
	var records []rawRecord

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "h2" || n.Data == "h3") {
			heading := nodeText(n)
			if heading != "" {
				for sib := n.NextSibling; sib != nil; sib = sib.NextSibling {
					if sib.Type != html.ElementNode {
						continue
					}
					if sib.Data != "p" {
						break
					}
					body := nodeText(sib)
					if body != "" {
						records = append(records, rawRecord{
							Instruction: fmt.Sprintf("What is %s?", heading),
							Output:      body,
						})
					}
					break
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return records
}

// nodeText collects the text content beneath a node.
func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}

// Command cssdemo parses an HTML document and its embedded stylesheet,
// matches selectors against the document tree, and prints each
// element's resolved style. Adapted from cmd/browser/main.go's
// read-parse-print pipeline, generalized from the simplified css/style
// packages to the streaming csslex/cssrule/cssstyle pipeline.
package main

import (
	"context"
	"flag"
	"fmt"
	"image/color"
	"net/url"
	"os"
	"regexp"
	"strings"

	_ "golang.org/x/image/bmp"

	"github.com/lukehoban/csslab/cssrule"
	"github.com/lukehoban/csslab/cssstyle"
	"github.com/lukehoban/csslab/csslex"
	"github.com/lukehoban/csslab/domtree"
	"github.com/lukehoban/csslab/html"
	"github.com/lukehoban/csslab/log"
	"github.com/lukehoban/csslab/resource"
)

func main() {
	strictSibling := flag.Bool("sibling-strict", false, "restrict the sibling combinator to the immediately preceding element")
	tokenBuffer := flag.Int("token-buffer", 16, "depth of the lexer-to-builder token channel")
	baseURL := flag.String("base-url", "", "base URL used to resolve relative image sources")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Println("Usage: cssdemo [flags] <html-file>")
		os.Exit(1)
	}

	content, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		log.Errorf("reading %s: %v", flag.Arg(0), err)
		os.Exit(1)
	}
	htmlContent := string(content)

	doc := html.Parse(htmlContent)
	tree, root := domtree.FromDOM(doc)

	cssSource := extractCSS(htmlContent)

	ctx := context.Background()
	progress := stringProgress(cssSource)
	tokens, lexErrs := csslex.Lex(ctx, progress, *tokenBuffer)
	sheet, err := cssrule.NewBuilder(tokens, lexErrs).Build(ctx)
	if err != nil {
		log.Errorf("parsing stylesheet: %v", err)
		os.Exit(1)
	}
	fmt.Printf("Parsed %d rules.\n", len(sheet.Rules))

	opts := cssstyle.ApplyOptions{
		Matching: cssstyle.MatchOptions{StrictAdjacentSibling: *strictSibling},
	}
	if *baseURL != "" {
		u, err := url.Parse(*baseURL)
		if err != nil {
			log.Errorf("parsing base URL: %v", err)
			os.Exit(1)
		}
		opts.BaseURL = u
		opts.ImageCache = resource.NewMemImageCache(resource.NewLoader())
	}

	styled := cssstyle.Apply(ctx, tree, root, sheet, opts)

	fmt.Println("\n=== Styled Tree ===")
	printStyledTree(tree, root, styled, 0)
}

// stringProgress adapts an in-memory string into a resource.ProgressMsg
// channel, so the streaming lexer can be driven from HTML a <style>
// block already holds in memory.
func stringProgress(s string) <-chan resource.ProgressMsg {
	out := make(chan resource.ProgressMsg, 1)
	go func() {
		defer close(out)
		if len(s) > 0 {
			out <- resource.ProgressMsg{Payload: []byte(s)}
		}
		out <- resource.ProgressMsg{Done: true}
	}()
	return out
}

func extractCSS(htmlContent string) string {
	re := regexp.MustCompile(`(?is)<style[^>]*>(.*?)</style>`)
	matches := re.FindAllStringSubmatch(htmlContent, -1)

	var cssContent strings.Builder
	for _, match := range matches {
		if len(match) > 1 {
			cssContent.WriteString(match[1])
			cssContent.WriteString("\n")
		}
	}
	return cssContent.String()
}

func printStyledTree(tree *domtree.Tree, id domtree.NodeID, styled *cssstyle.StyledTree, indent int) {
	prefix := strings.Repeat("  ", indent)
	node := tree.Node(id)

	switch node.Kind {
	case domtree.Document:
		fmt.Printf("%s[Document]\n", prefix)
	case domtree.Element:
		st := styled.Styles[id]
		fmt.Printf("%s<%s> color=%s background=%s display=%s\n", prefix, node.Tag, hexColor(st.Color), hexColor(st.BackgroundColor), st.Display)
	case domtree.Text:
		text := strings.TrimSpace(node.Text)
		if text != "" {
			if len(text) > 50 {
				text = text[:47] + "..."
			}
			fmt.Printf("%s%q\n", prefix, text)
		}
	}

	for _, child := range tree.Children(id) {
		printStyledTree(tree, child, styled, indent+1)
	}
}

func hexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

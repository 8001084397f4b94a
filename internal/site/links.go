package site

import (
	"fmt"
	"io/fs"
	"log"
	"net/url"
	"os"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// BrokenLink is a relative reference in a generated page whose target does
// not exist in the output directory.
type BrokenLink struct {
	Page   string
	Target string
}

func (b BrokenLink) String() string {
	return fmt.Sprintf("%s -> %s", b.Page, b.Target)
}

// CheckLinks parses every HTML page below outputDir and reports relative
// href/src targets that are missing. External URLs and fragments are ignored.
func CheckLinks(outputDir string) ([]BrokenLink, error) {
	root := os.DirFS(outputDir)
	var broken []BrokenLink

	err := fs.WalkDir(root, ".", func(page string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(page, ".html") {
			return nil
		}

		targets, err := pageTargets(root, page)
		if err != nil {
			return err
		}
		for _, target := range targets {
			resolved, ok := resolve(page, target)
			if !ok {
				continue
			}
			if _, err := fs.Stat(root, resolved); err != nil {
				broken = append(broken, BrokenLink{Page: page, Target: target})
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to check links in %s: %w", outputDir, err)
	}

	log.Printf("link check of %s found %d broken links", outputDir, len(broken))
	return broken, nil
}

func pageTargets(root fs.FS, page string) ([]string, error) {
	file, err := root.Open(page)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.Printf("failed to close %s: %v", page, err)
		}
	}()

	doc, err := goquery.NewDocumentFromReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", page, err)
	}

	var targets []string
	doc.Find("a[href], link[href]").Each(func(_ int, s *goquery.Selection) {
		targets = append(targets, s.AttrOr("href", ""))
	})
	doc.Find("script[src], img[src]").Each(func(_ int, s *goquery.Selection) {
		targets = append(targets, s.AttrOr("src", ""))
	})
	return targets, nil
}

// resolve maps a reference found in page to a slash-separated path relative
// to the site root. It reports false for external URLs and bare fragments.
// References climbing above the root resolve to invalid paths and so count
// as broken.
func resolve(page, target string) (string, bool) {
	u, err := url.Parse(target)
	if err != nil || u.Scheme != "" || u.Host != "" || u.Path == "" {
		return "", false
	}

	if strings.HasPrefix(u.Path, "/") {
		return path.Clean(strings.TrimPrefix(u.Path, "/")), true
	}
	return path.Join(path.Dir(page), u.Path), true
}

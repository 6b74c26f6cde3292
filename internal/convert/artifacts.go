// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
)

// published is where a converted document ended up in the output directory.
type published struct {
	markdownPath string
	imagesDir    string
	images       int
}

// publish moves a converter's output into outputDir as <base>.md and
// <base>_images/, replacing earlier results, and rewrites image references
// in the Markdown to point at the new images directory.
func publish(out *Output, outputDir, base string) (published, error) {
	if out == nil || out.MarkdownPath == "" {
		return published{}, errors.New("converter produced no markdown")
	}
	md, err := os.ReadFile(out.MarkdownPath)
	if err != nil {
		return published{}, fmt.Errorf("reading converted markdown: %w", err)
	}

	imagesName := base + imagesSuffix
	pub := published{
		markdownPath: filepath.Join(outputDir, base+".md"),
		imagesDir:    filepath.Join(outputDir, imagesName),
	}

	if err := os.RemoveAll(pub.imagesDir); err != nil {
		return published{}, fmt.Errorf("removing old images: %w", err)
	}

	if hasDir(out.ArtifactsDir) {
		if err := os.Rename(out.ArtifactsDir, pub.imagesDir); err != nil {
			return published{}, fmt.Errorf("moving images: %w", err)
		}
		md = RewriteImageRefs(md, filepath.Base(out.ArtifactsDir), imagesName)

		pub.images, err = countImages(pub.imagesDir)
		if err != nil {
			return published{}, err
		}
	} else {
		pub.imagesDir = ""
	}

	if err := os.WriteFile(pub.markdownPath, md, 0o644); err != nil {
		return published{}, fmt.Errorf("writing markdown: %w", err)
	}
	return pub, nil
}

// RewriteImageRefs replaces every link target in md that leads into a
// directory named artifactsName, whatever prefix it carries, with
// imagesName, so "output/doc_artifacts/img.png" and "doc_artifacts/img.png"
// both become "doc_images/img.png". Targets are recognised after "](",
// "](<", src= and href= attributes, and reference definitions; the prefix
// may contain spaces. A path standing alone at the start of a line is
// rewritten too, but only when its prefix has no spaces.
func RewriteImageRefs(md []byte, artifactsName, imagesName string) []byte {
	if artifactsName == "" || artifactsName == imagesName {
		return md
	}
	name := regexp.QuoteMeta(artifactsName)
	link := regexp.MustCompile(`(?m)(\]\(<?|\b(?:src|href)=["']|^[ \t]*\[[^\]\n]+\]:[ \t]*<?)(?:[^()\n"'<>]*/)?` + name + `/`)
	bare := regexp.MustCompile(`(?m)^([ \t]*)(?:[^\s()\[\]<>"'=]*/)?` + name + `/`)
	repl := []byte("${1}" + imagesName + "/")
	md = link.ReplaceAll(md, repl)
	return bare.ReplaceAll(md, repl)
}

// countImages counts png/jpg/jpeg files below dir.
func countImages(dir string) (int, error) {
	n := 0
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && isImage(d.Name()) {
			n++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("counting images in %s: %w", dir, err)
	}
	return n, nil
}

func hasDir(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

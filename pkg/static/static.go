// Package static provides file resolvers for strada's static route phase.
//
// A resolver receives the wildcard remainder of a matched static pattern
// as a decoded segment sequence and either produces a complete response
// or reports not-found, in which case dispatch falls through to the
// dynamic route table. The resolvers own content-type inference,
// directory redirects, and the ".html" suffix fallback; the router core
// never looks inside.
package static

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"mime"
	"net/http"
	"os"
	"path"
	"strconv"
	"strings"

	"github.com/strada-dev/strada"
)

// Dir serves files from a directory on disk.
//
//	app.Static("/public/*", static.Dir("./public"))
//
// Requests resolving to a directory redirect to the slash-terminated URL
// and then serve its index.html. A path without an extension falls back
// to the ".html" suffixed file. Traversal attempts never escape root.
func Dir(root string) strada.Resolver {
	return FS(os.DirFS(root))
}

// FS serves files from an fs.FS. See Dir.
func FS(fsys fs.FS) strada.Resolver {
	return func(req *http.Request, parts []string) (*strada.Response, error) {
		rel, ok := relPath(parts)
		if !ok {
			return nil, nil
		}
		return serveFile(fsys, req, rel)
	}
}

func serveFile(fsys fs.FS, req *http.Request, rel string) (*strada.Response, error) {
	f, err := fsys.Open(rel)
	if errors.Is(err, fs.ErrNotExist) {
		// Extensionless paths fall back to the ".html" twin.
		if path.Ext(rel) == "" {
			return serveNamedFile(fsys, rel+".html")
		}
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if info.IsDir() {
		f.Close()
		if !strings.HasSuffix(req.URL.Path, "/") {
			return strada.Redirect(req.URL.Path+"/", http.StatusMovedPermanently), nil
		}
		return serveNamedFile(fsys, path.Join(rel, "index.html"))
	}

	return fileResponse(f, info, rel)
}

// serveNamedFile opens an exact path, treating any miss as not found.
func serveNamedFile(fsys fs.FS, rel string) (*strada.Response, error) {
	f, err := fsys.Open(rel)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil || info.IsDir() {
		f.Close()
		return nil, err
	}
	return fileResponse(f, info, rel)
}

// fileResponse builds a streaming response for an open file, inferring
// the content type from the extension and sniffing when that fails.
func fileResponse(f fs.File, info fs.FileInfo, rel string) (*strada.Response, error) {
	var body io.Reader = f

	ctype := mime.TypeByExtension(path.Ext(rel))
	if ctype == "" {
		var sniff [512]byte
		n, err := io.ReadFull(f, sniff[:])
		if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
			f.Close()
			return nil, err
		}
		ctype = http.DetectContentType(sniff[:n])
		body = readCloser{io.MultiReader(bytes.NewReader(sniff[:n]), f), f}
	}

	resp := &strada.Response{
		Status: http.StatusOK,
		Body:   body,
	}
	resp.SetHeader("Content-Type", ctype)
	resp.SetHeader("Content-Length", strconv.FormatInt(info.Size(), 10))
	return resp, nil
}

// readCloser pairs a sniffed reader with the file it must close.
type readCloser struct {
	io.Reader
	io.Closer
}

// relPath joins decoded path segments into a path relative to the
// resolver root, rejecting anything that could escape it. Segments are
// already non-empty (the tokenizer drops empties), so only dot segments
// and separator smuggling need refusing.
func relPath(parts []string) (string, bool) {
	for _, seg := range parts {
		if seg == "." || seg == ".." {
			return "", false
		}
		if strings.ContainsAny(seg, "/\\") || strings.IndexByte(seg, 0) != -1 {
			return "", false
		}
	}
	rel := path.Join(parts...)
	if rel == "" || rel == "." {
		return "", false
	}
	if !fs.ValidPath(rel) {
		return "", false
	}
	return rel, true
}

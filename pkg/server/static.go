package server

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/getmockd/devhttp/pkg/chain"
	"github.com/getmockd/devhttp/pkg/httputil"
	"github.com/getmockd/devhttp/pkg/util"
)

// SetStatic serves files below folder for GET requests whose path starts
// with prefix. The path after the prefix names the file; an empty one
// serves defaultFile. Paths escaping folder and unreadable files go to the
// error handler.
func (s *Server) SetStatic(prefix, folder, defaultFile string) error {
	root, err := filepath.Abs(folder)
	if err != nil {
		return fmt.Errorf("failed to resolve static folder %s: %w", folder, err)
	}

	s.OnGet(Prefix(prefix), func(res *chain.Response, req *chain.Request) {
		rel := strings.TrimPrefix(strings.TrimPrefix(req.Path, prefix), "/")
		if rel == "" {
			rel = defaultFile
		}

		name, ok := util.ResolveUnder(root, filepath.FromSlash(rel))
		if !ok {
			s.log.Warn("static path escapes folder", "path", req.Path, "folder", root)
			s.fail(res, req)
			return
		}

		content, err := s.readFile(name)
		if err != nil {
			s.log.Debug("static file not readable", "file", name, "error", err)
			s.fail(res, req)
			return
		}

		httputil.WriteContent(res, name, content)
	})

	s.log.Debug("static mapping registered", "prefix", prefix, "folder", root, "default", defaultFile)
	return nil
}

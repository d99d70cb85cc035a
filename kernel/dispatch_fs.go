package kernel

import (
	"io"

	"vkernel/sys"
	"vkernel/vfs"
)

// File syscalls. Content lives in the namespace; positions live in the
// caller's descriptor table, so two descriptors on the same path advance
// independently.

// sysOpen allocates a descriptor per mode:
//
//	r: existing file at position 0; -1 when missing
//	w: truncate (create if missing), position 0
//	a: create if missing, position at end
//
// Any other mode is -1.
func (k *Kernel) sysOpen(p *Process, req *sys.Request) {
	path := vfs.CleanPath(req.Path)
	switch req.Mode {
	case "r":
		if !k.files.Exists(path) {
			p.ready(-1)
			return
		}
		p.ready(p.allocFD(path, 0, "r"))
	case "w":
		k.files.Truncate(path)
		p.ready(p.allocFD(path, 0, "w"))
	case "a":
		k.files.Touch(path)
		p.ready(p.allocFD(path, k.files.Size(path), "a"))
	default:
		p.ready(-1)
	}
}

// sysRead reads up to Count units from the descriptor's position, advancing
// it. No Count means read to end. At or past end reads empty. A bad
// descriptor returns the nil sentinel.
func (k *Kernel) sysRead(p *Process, req *sys.Request) {
	d, ok := p.fd(req.FD)
	if !ok {
		p.ready(nil)
		return
	}

	// A file unlinked while open reads as empty from here on.
	content, _ := k.files.Read(d.path)
	if d.pos >= len(content) {
		p.ready("")
		return
	}

	end := len(content)
	if req.HasCount && req.Count >= 0 && d.pos+req.Count < end {
		end = d.pos + req.Count
	}
	chunk := content[d.pos:end]
	d.pos += len(chunk)
	p.ready(chunk)
}

// sysWrite splices data at the descriptor's position, overwriting the
// overlapping range and advancing the position. Descriptors 1 and 2 emit to
// the host streams and never touch the namespace.
func (k *Kernel) sysWrite(p *Process, req *sys.Request) {
	switch req.FD {
	case FDStdout:
		io.WriteString(k.opts.Stdout, req.Data)
		p.ready(len(req.Data))
		return
	case FDStderr:
		io.WriteString(k.opts.Stderr, req.Data)
		p.ready(len(req.Data))
		return
	}

	d, ok := p.fd(req.FD)
	if !ok {
		p.ready(-1)
		return
	}

	n := k.files.Splice(d.path, d.pos, req.Data)
	d.pos += n
	p.ready(n)
}

// sysReadFile is the descriptorless whole-file read; nil when the path is
// absent.
func (k *Kernel) sysReadFile(p *Process, req *sys.Request) {
	content, ok := k.files.Read(req.Path)
	if !ok {
		p.ready(nil)
		return
	}
	p.ready(content)
}

package fsops

import (
	"fmt"
	"io"
	"os"
	"os/user"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/tympanix/gosh/internal/shellerr"
	"github.com/tympanix/gosh/internal/util"
)

// ListOptions mirrors ls's flags
type ListOptions struct {
	ShowHidden bool
	Long       bool
	Classify   bool
	// Ignore holds glob patterns of entry names to leave out
	Ignore []string
}

// Entry is one listed name with the metadata a long listing needs
type Entry struct {
	Name   string
	Info   os.FileInfo
	Target string
	Links  uint64
	Owner  string
	Group  string
	Blocks int64
	Xattr  bool
}

// Listing is the result of List, ready to render
type Listing struct {
	Entries []Entry
	IsDir   bool
	opts    ListOptions
}

// List enumerates path sorted byte-wise by name. A file operand lists just
// that file.
func (o *Ops) List(cwd, path string, opts ListOptions) (*Listing, error) {
	abs := Resolve(cwd, path)

	info, err := o.lstat(abs)
	if err != nil {
		return nil, shellerr.Wrap("ls", fmt.Sprintf("cannot access '%s'", path), err)
	}
	if info.Mode()&os.ModeSymlink != 0 && !opts.Long {
		if target, err := o.fs.Stat(abs); err == nil {
			info = target
		}
	}

	names := newNameCache()
	if !info.IsDir() {
		e := o.entry(path, abs, info, opts.Long, names)
		return &Listing{Entries: []Entry{e}, opts: opts}, nil
	}

	infos, err := afero.ReadDir(o.fs, abs)
	if err != nil {
		return nil, shellerr.Wrap("ls", fmt.Sprintf("cannot open directory '%s'", path), err)
	}

	entries := make([]Entry, 0, len(infos)+2)
	if opts.ShowHidden {
		for _, pseudo := range []string{".", ".."} {
			pseudoAbs := filepath.Join(abs, pseudo)
			if pinfo, err := o.fs.Stat(pseudoAbs); err == nil {
				entries = append(entries, o.entry(pseudo, pseudoAbs, pinfo, opts.Long, names))
			}
		}
	}
	for _, fi := range infos {
		if !opts.ShowHidden && strings.HasPrefix(fi.Name(), ".") {
			continue
		}
		entries = append(entries, o.entry(fi.Name(), filepath.Join(abs, fi.Name()), fi, opts.Long, names))
	}

	if len(opts.Ignore) > 0 {
		negated := make([]string, len(opts.Ignore))
		for i, p := range opts.Ignore {
			negated[i] = "!" + p
		}
		entries, err = util.Filter(util.NewGlobPattern(negated), entries, func(e Entry) string { return e.Name })
		if err != nil {
			return nil, shellerr.New(shellerr.InvalidOption, "ls", err.Error())
		}
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return &Listing{Entries: entries, IsDir: true, opts: opts}, nil
}

func (o *Ops) entry(name, abs string, info os.FileInfo, long bool, names *nameCache) Entry {
	e := Entry{Name: name, Info: info}
	if !long {
		return e
	}

	sys := statOf(info)
	e.Links = sys.links
	e.Blocks = sys.blocks
	e.Owner = names.user(sys.uid)
	e.Group = names.group(sys.gid)
	if sys.real {
		e.Xattr = hasXattr(abs)
	}
	if info.Mode()&os.ModeSymlink != 0 {
		if r, ok := o.fs.(afero.LinkReader); ok {
			e.Target, _ = r.ReadlinkIfPossible(abs)
		}
	}
	return e
}

// Write renders the listing: one name per line, or ls -l rows preceded by a
// "total" line of 1K blocks for directories
func (l *Listing) Write(w io.Writer, now time.Time) error {
	if !l.opts.Long {
		for _, e := range l.Entries {
			if _, err := fmt.Fprintln(w, e.Name+l.suffix(e)); err != nil {
				return err
			}
		}
		return nil
	}

	var blocks int64
	linkW, ownerW, groupW, sizeW := 1, 1, 1, 1
	for _, e := range l.Entries {
		blocks += e.Blocks
		linkW = max(linkW, len(strconv.FormatUint(e.Links, 10)))
		ownerW = max(ownerW, len(e.Owner))
		groupW = max(groupW, len(e.Group))
		sizeW = max(sizeW, len(strconv.FormatInt(e.Info.Size(), 10)))
	}

	if l.IsDir {
		if _, err := fmt.Fprintf(w, "total %d\n", (blocks+1)/2); err != nil {
			return err
		}
	}

	for _, e := range l.Entries {
		marker := " "
		if e.Xattr {
			marker = "@"
		}
		name := e.Name + l.suffix(e)
		if e.Target != "" {
			name += " -> " + e.Target
		}
		_, err := fmt.Fprintf(w, "%s%s %*d %-*s %-*s %*d %s %s\n",
			ModeString(e.Info.Mode()), marker,
			linkW, e.Links,
			ownerW, e.Owner,
			groupW, e.Group,
			sizeW, e.Info.Size(),
			FormatTime(e.Info.ModTime(), now),
			name,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func (l *Listing) suffix(e Entry) string {
	if !l.opts.Classify {
		return ""
	}
	return ClassifySuffix(e.Info.Mode())
}

// ClassifySuffix is the ls -F indicator for mode
func ClassifySuffix(mode os.FileMode) string {
	switch {
	case mode.IsDir():
		return "/"
	case mode&os.ModeSymlink != 0:
		return ""
	case mode&os.ModeNamedPipe != 0:
		return "|"
	case mode&os.ModeSocket != 0:
		return "="
	case mode&0111 != 0:
		return "*"
	default:
		return ""
	}
}

// ModeString renders the type indicator and the nine permission bits
func ModeString(mode os.FileMode) string {
	var b strings.Builder
	switch {
	case mode.IsDir():
		b.WriteByte('d')
	case mode&os.ModeSymlink != 0:
		b.WriteByte('l')
	case mode&os.ModeNamedPipe != 0:
		b.WriteByte('p')
	case mode&os.ModeSocket != 0:
		b.WriteByte('s')
	case mode&os.ModeCharDevice != 0:
		b.WriteByte('c')
	case mode&os.ModeDevice != 0:
		b.WriteByte('b')
	default:
		b.WriteByte('-')
	}

	const rwx = "rwxrwxrwx"
	perm := mode.Perm()
	for i := 0; i < 9; i++ {
		if perm&(1<<uint(8-i)) != 0 {
			b.WriteByte(rwx[i])
		} else {
			b.WriteByte('-')
		}
	}
	return b.String()
}

// FormatTime renders a modification time as "Jan _2 15:04", or
// "Jan _2  2006" when the year differs from now's
func FormatTime(mtime, now time.Time) string {
	mtime = mtime.In(now.Location())
	if mtime.Year() != now.Year() {
		return mtime.Format("Jan _2  2006")
	}
	return mtime.Format("Jan _2 15:04")
}

type nameCache struct {
	users  map[uint32]string
	groups map[uint32]string
}

func newNameCache() *nameCache {
	return &nameCache{users: map[uint32]string{}, groups: map[uint32]string{}}
}

func (c *nameCache) user(uid uint32) string {
	if name, ok := c.users[uid]; ok {
		return name
	}
	id := strconv.FormatUint(uint64(uid), 10)
	name := id
	if u, err := user.LookupId(id); err == nil {
		name = u.Username
	}
	c.users[uid] = name
	return name
}

func (c *nameCache) group(gid uint32) string {
	if name, ok := c.groups[gid]; ok {
		return name
	}
	id := strconv.FormatUint(uint64(gid), 10)
	name := id
	if g, err := user.LookupGroupId(id); err == nil {
		name = g.Name
	}
	c.groups[gid] = name
	return name
}

package domain

import (
	"bytes"
	"strconv"
	"strings"

	"go.trai.ch/zerr"
)

// Account database paths inside the image.
const (
	PasswdPath = "/etc/passwd"
	GroupPath  = "/etc/group"
)

// IdentityShell is the login shell recorded for the execution identity.
const IdentityShell = "/bin/sh"

// superuser entries seed account files that do not exist yet.
const (
	rootPasswd = "root:x:0:0:root:/root:/bin/sh"
	rootGroup  = "root:x:0:"
)

// UpsertPasswd returns passwd content that contains the identity. An entry that already
// matches is kept as is. An entry with the same name or uid but different ids is a conflict.
func UpsertPasswd(content []byte, id Identity) ([]byte, error) {
	entry := strings.Join([]string{
		id.Name, "x", strconv.Itoa(id.UID), strconv.Itoa(id.GID), "", id.Home, IdentityShell,
	}, ":")
	return upsert(content, rootPasswd, entry, func(fields []string) (bool, error) {
		if len(fields) < 4 {
			return false, nil
		}
		sameName := fields[0] == id.Name
		sameUID := fields[2] == strconv.Itoa(id.UID)
		switch {
		case sameName && sameUID && fields[3] == strconv.Itoa(id.GID):
			return true, nil
		case sameName || sameUID:
			return false, zerr.With(Tag(ErrIdentityConflict, "passwd", fields[0]), "uid", fields[2])
		}
		return false, nil
	})
}

// UpsertGroup returns group content that contains the identity's primary group.
func UpsertGroup(content []byte, id Identity) ([]byte, error) {
	entry := id.Name + ":x:" + strconv.Itoa(id.GID) + ":"
	return upsert(content, rootGroup, entry, func(fields []string) (bool, error) {
		if len(fields) < 3 {
			return false, nil
		}
		sameName := fields[0] == id.Name
		sameGID := fields[2] == strconv.Itoa(id.GID)
		switch {
		case sameName && sameGID:
			return true, nil
		case sameName || sameGID:
			return false, zerr.With(Tag(ErrIdentityConflict, "group", fields[0]), "gid", fields[2])
		}
		return false, nil
	})
}

// upsert appends entry unless match reports an existing equivalent line.
func upsert(content []byte, seed, entry string, match func([]string) (bool, error)) ([]byte, error) {
	if len(bytes.TrimSpace(content)) == 0 {
		content = []byte(seed + "\n")
	}
	for line := range strings.SplitSeq(string(content), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		found, err := match(strings.Split(line, ":"))
		if err != nil {
			return nil, err
		}
		if found {
			return content, nil
		}
	}

	out := bytes.Clone(content)
	if !bytes.HasSuffix(out, []byte("\n")) {
		out = append(out, '\n')
	}
	return append(out, entry+"\n"...), nil
}

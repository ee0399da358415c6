// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package runtimeEnv holds the process-level setup the long-running watch
// daemon needs: dropping root privileges after opening log files that
// require it, and systemd readiness notification.
package runtimeEnv

import (
	"fmt"
	"os"
	"os/exec"
	"os/user"
	"strconv"
	"syscall"

	"github.com/cc-tundra/logpattern/pkg/log"
)

// DropPrivileges switches the process's user and group to username/group,
// letting the watch daemon open a root-owned log directory and then give up
// its root privileges before entering its scan loop. The go runtime applies
// the underlying syscall to every OS thread, not just the calling one.
func DropPrivileges(username string, group string) error {
	if group != "" {
		g, err := user.LookupGroup(group)
		if err != nil {
			log.WarnKV("runtimeEnv: group lookup failed", "group", group)
			return err
		}

		gid, _ := strconv.Atoi(g.Gid)
		if err := syscall.Setgid(gid); err != nil {
			log.WarnKV("runtimeEnv: setgid failed", "gid", gid)
			return err
		}
	}

	if username != "" {
		u, err := user.Lookup(username)
		if err != nil {
			log.WarnKV("runtimeEnv: user lookup failed", "user", username)
			return err
		}

		uid, _ := strconv.Atoi(u.Uid)
		if err := syscall.Setuid(uid); err != nil {
			log.WarnKV("runtimeEnv: setuid failed", "uid", uid)
			return err
		}
	}

	return nil
}

// SystemdNotify tells systemd the watch daemon's status, a no-op unless the
// process was started under systemd (NOTIFY_SOCKET set):
// https://www.freedesktop.org/software/systemd/man/sd_notify.html
func SystemdNotify(ready bool, status string) {
	if os.Getenv("NOTIFY_SOCKET") == "" {
		return
	}

	args := []string{fmt.Sprintf("--pid=%d", os.Getpid())}
	if ready {
		args = append(args, "--ready")
	}
	if status != "" {
		args = append(args, fmt.Sprintf("--status=%s", status))
	}

	cmd := exec.Command("systemd-notify", args...)
	_ = cmd.Run() // best-effort: nothing useful to do if systemd-notify is missing
}

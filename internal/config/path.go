package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ResolvePath 找配置文件：原路径、可执行文件目录下的同名路径、可执行文件目录下的文件名
func ResolvePath(path string) (string, error) {
	return resolve(path, "config file", func(info os.FileInfo) bool { return !info.IsDir() })
}

// ResolveDir 找静态网页目录，规则同 ResolvePath
func ResolveDir(path string) (string, error) {
	return resolve(path, "dir", os.FileInfo.IsDir)
}

func resolve(path, what string, ok func(os.FileInfo) bool) (string, error) {
	if path == "" {
		return "", fmt.Errorf("empty %s path", what)
	}

	var checked []string
	try := func(p string) (string, bool) {
		abs, err := filepath.Abs(p)
		if err != nil {
			return "", false
		}
		for _, c := range checked {
			if c == abs {
				return "", false
			}
		}
		checked = append(checked, abs)
		info, err := os.Stat(abs)
		return abs, err == nil && ok(info)
	}

	if abs, found := try(path); found {
		return abs, nil
	}
	if !filepath.IsAbs(path) {
		if exe, err := os.Executable(); err == nil {
			dir := filepath.Dir(exe)
			for _, p := range []string{filepath.Join(dir, path), filepath.Join(dir, filepath.Base(path))} {
				if abs, found := try(p); found {
					return abs, nil
				}
			}
		}
	}
	return "", fmt.Errorf("%s not found, checked: %s", what, strings.Join(checked, ", "))
}

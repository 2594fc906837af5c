// Package embedded 提供内嵌数据文件的统一访问接口
//
// 由于 Go embed 指令只能嵌入当前包目录及其子目录的文件，
// embed.FS 变量必须声明在项目根目录（embed.go）。
// 本包提供包装函数，让其他包可以访问嵌入的默认数据文件。
//
// 读取规则：
//   - "data/" 前缀的路径先查内嵌资源，不存在时回退到磁盘
//   - 其他路径（绝对路径、用户指定的配置文件）直接从磁盘读取
//   - 未调用 Init() 时所有路径都从磁盘读取
package embedded

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

var (
	dataFS      fs.FS
	initialized bool
)

// Init 设置内嵌数据文件系统
// 应在 main() 开始时、任何配置加载之前调用
func Init(data fs.FS) {
	dataFS = data
	initialized = data != nil
}

// IsInitialized 返回 embedded 包是否已初始化
func IsInitialized() bool {
	return initialized
}

// Reset 清除内嵌文件系统（测试使用）
func Reset() {
	dataFS = nil
	initialized = false
}

// normalize 标准化路径分隔符并移除 "./" 前缀（embed.FS 使用正斜杠）
func normalize(path string) string {
	path = filepath.ToSlash(path)
	return strings.TrimPrefix(path, "./")
}

func isDataPath(path string) bool {
	return strings.HasPrefix(path, "data/")
}

// ReadFile 读取文件内容
func ReadFile(path string) ([]byte, error) {
	clean := normalize(path)
	if initialized && isDataPath(clean) {
		data, err := fs.ReadFile(dataFS, clean)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	return os.ReadFile(path)
}

// Exists 检查文件是否存在（内嵌资源或磁盘）
func Exists(path string) bool {
	clean := normalize(path)
	if initialized && isDataPath(clean) {
		if _, err := fs.Stat(dataFS, clean); err == nil {
			return true
		}
	}
	_, err := os.Stat(path)
	return err == nil
}

// Glob 在内嵌资源中匹配文件，未初始化时匹配磁盘
func Glob(pattern string) ([]string, error) {
	clean := normalize(pattern)
	if initialized && isDataPath(clean) {
		return fs.Glob(dataFS, clean)
	}
	return filepath.Glob(pattern)
}

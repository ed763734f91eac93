package core

// Version 是 DXF 文件头中声明的格式版本号（$ACADVER）
type Version string

const (
	AC1009 Version = "AC1009" // R12
	AC1012 Version = "AC1012" // R13
	AC1014 Version = "AC1014" // R14
	AC1015 Version = "AC1015" // R2000
	AC1018 Version = "AC1018" // R2004
	AC1021 Version = "AC1021" // R2007，开始使用 UTF-8
	AC1024 Version = "AC1024" // R2010
	AC1027 Version = "AC1027" // R2013
	AC1032 Version = "AC1032" // R2018
)

// LatestVersion 新建文档的默认版本
const LatestVersion = AC1032

// releases 版本号到发行名的映射
var releases = map[Version]string{
	AC1009: "R12",
	AC1012: "R13",
	AC1014: "R14",
	AC1015: "R2000",
	AC1018: "R2004",
	AC1021: "R2007",
	AC1024: "R2010",
	AC1027: "R2013",
	AC1032: "R2018",
}

// saveVersions 允许作为保存目标的版本集合
var saveVersions = map[Version]bool{
	AC1009: true,
	AC1015: true,
	AC1018: true,
	AC1021: true,
	AC1024: true,
	AC1027: true,
	AC1032: true,
}

// Release 返回发行名，如 R2000；未知版本返回原值
func (v Version) Release() string {
	if r, ok := releases[v]; ok {
		return r
	}
	return string(v)
}

// Known 判断是否为已知版本
func (v Version) Known() bool {
	_, ok := releases[v]
	return ok
}

// Saveable 判断是否允许作为保存目标
func (v Version) Saveable() bool {
	return saveVersions[v]
}

// Before 按版本序比较（版本号字符串本身满足字典序）
func (v Version) Before(other Version) bool {
	return v < other
}

// Unicode 判断该版本是否使用 UTF-8 编码（R2007 起）
func (v Version) Unicode() bool {
	return v >= AC1021
}

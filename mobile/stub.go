//go:build !mobile

// 普通构建时 mobile 包只保留占位导出，绑定代码见 mobile.go
package mobile

// Dummy 占位导出函数
func Dummy() {}

package depsGraph

// Dependency 参照される側のリソースパス（res:// 形式）
type Dependency string

// Dependent 参照する側のファイルのパス（res:// 形式）
type Dependent string

type DepsGraph map[Dependency][]Dependent

type Repository interface {
	Read(path string) (DepsGraph, error)
	Write(path string, graph DepsGraph) error
}

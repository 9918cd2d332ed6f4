package depsGraph

import (
	"encoding/json"
	"github.com/t-kuni/resfix/domain/repository/depsGraph"
	"github.com/t-kuni/resfix/domain/repository/file"
	"sort"
)

type repositoryImpl struct {
	fileRepository file.Repository
}

func NewRepository(fileRepository file.Repository) depsGraph.Repository {
	return &repositoryImpl{fileRepository: fileRepository}
}

func (r *repositoryImpl) Read(path string) (depsGraph.DepsGraph, error) {
	content, err := r.fileRepository.Read(path)
	if err != nil {
		return nil, err
	}

	var graph depsGraph.DepsGraph
	err = json.Unmarshal(content, &graph)
	if err != nil {
		return nil, err
	}

	return graph, nil
}

// Write 参照元は毎回同じ順序で出力されるようにソートしてから書き込む
func (r *repositoryImpl) Write(path string, graph depsGraph.DepsGraph) error {
	for _, dependents := range graph {
		sort.Slice(dependents, func(i, j int) bool { return dependents[i] < dependents[j] })
	}

	content, err := json.MarshalIndent(graph, "", "  ")
	if err != nil {
		return err
	}

	return r.fileRepository.WriteAtomic(path, append(content, '\n'))
}

package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"indoor-nav-backend/models"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

var (
	// ErrUnknownFloor - 존재하지 않는 층 인덱스
	ErrUnknownFloor = errors.New("floors: unknown floor index")
	// ErrEmptyManifest - floor 블록이 하나도 없음
	ErrEmptyManifest = errors.New("floors: manifest declares no floors")
)

// floorManifest - floors.hcl 스키마
type floorManifest struct {
	Floors []FloorBlock `hcl:"floor,block"`
}

type FloorBlock struct {
	Key         string          `hcl:"key,label"`
	ID          int             `hcl:"id"`
	Name        string          `hcl:"name"`
	ShortName   string          `hcl:"short_name,optional"`
	Description string          `hcl:"description,optional"`
	Graph       string          `hcl:"graph"`
	Plan        string          `hcl:"plan,optional"`
	Transform   *transformBlock `hcl:"transform,block"`
}

type transformBlock struct {
	Scale   float64 `hcl:"scale,optional"`
	OffsetX float64 `hcl:"offset_x,optional"`
	OffsetY float64 `hcl:"offset_y,optional"`
}

// FloorCatalog - 시작 시 한 번 로드되는 층 데이터 (읽기 전용)
type FloorCatalog struct {
	mu     sync.RWMutex
	floors []models.Floor
	active map[int]models.Graph // 보정 적용된 그래프 캐시
}

// NewFloorCatalog - 메모리 상의 층 목록으로 카탈로그 생성
func NewFloorCatalog(floors ...models.Floor) *FloorCatalog {
	return &FloorCatalog{
		floors: floors,
		active: make(map[int]models.Graph, len(floors)),
	}
}

// LoadCatalog - HCL 매니페스트와 그래프 JSON 파일 로드
func LoadCatalog(manifestPath string) (*FloorCatalog, error) {
	src, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("read manifest %s: %w", manifestPath, err)
	}

	blocks, err := ParseManifest(src, manifestPath)
	if err != nil {
		return nil, err
	}

	baseDir := filepath.Dir(manifestPath)
	floors := make([]models.Floor, 0, len(blocks))
	for _, b := range blocks {
		graph, err := loadGraphFile(filepath.Join(baseDir, b.Graph))
		if err != nil {
			return nil, fmt.Errorf("floor %q: %w", b.Key, err)
		}
		floors = append(floors, b.toFloor(graph))
		log.Printf("🏢 층 로드: %s (%s) - 정점 %d개, 간선 %d개", b.Name, b.Key, len(graph.Vertices), len(graph.Edges))
	}

	return NewFloorCatalog(floors...), nil
}

// ParseManifest - HCL 소스에서 floor 블록 디코딩
func ParseManifest(src []byte, filename string) ([]FloorBlock, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %s", filename, diags.Error())
	}

	var manifest floorManifest
	diags = gohcl.DecodeBody(file.Body, nil, &manifest)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %s", filename, diags.Error())
	}
	if len(manifest.Floors) == 0 {
		return nil, ErrEmptyManifest
	}

	var dupDiags hcl.Diagnostics
	seen := make(map[string]bool, len(manifest.Floors))
	for _, f := range manifest.Floors {
		if seen[f.Key] {
			dupDiags = append(dupDiags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Duplicate floor block",
				Detail:   fmt.Sprintf("floor %q is declared more than once", f.Key),
			})
		}
		seen[f.Key] = true
	}
	if dupDiags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %s", filename, dupDiags.Error())
	}
	return manifest.Floors, nil
}

func (b FloorBlock) toFloor(graph models.Graph) models.Floor {
	transform := models.IdentityTransform()
	if b.Transform != nil {
		transform = models.Transform{
			Scale:   b.Transform.Scale,
			OffsetX: b.Transform.OffsetX,
			OffsetY: b.Transform.OffsetY,
		}
	}

	return models.Floor{
		ID:          b.ID,
		Key:         b.Key,
		Name:        b.Name,
		ShortName:   b.ShortName,
		Description: b.Description,
		PlanPath:    b.Plan,
		Graph:       graph,
		Transform:   transform,
	}
}

// loadGraphFile - {vertices, edges} JSON 로드
func loadGraphFile(path string) (models.Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.Graph{}, fmt.Errorf("read graph: %w", err)
	}

	var graph models.Graph
	if err := json.Unmarshal(data, &graph); err != nil {
		return models.Graph{}, fmt.Errorf("decode graph %s: %w", path, err)
	}

	seen := make(map[string]bool, len(graph.Vertices))
	for _, v := range graph.Vertices {
		if seen[v.ID] {
			log.Printf("⚠️ 중복 정점 ID: %s (%s)", v.ID, path)
		}
		seen[v.ID] = true
	}
	return graph, nil
}

// Len - 층 개수
func (c *FloorCatalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.floors)
}

// Floor - 인덱스로 층 조회
func (c *FloorCatalog) Floor(index int) (models.Floor, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if index < 0 || index >= len(c.floors) {
		return models.Floor{}, fmt.Errorf("%w: %d", ErrUnknownFloor, index)
	}
	return c.floors[index], nil
}

// ActiveGraph - 좌표 보정이 적용된 층 그래프
func (c *FloorCatalog) ActiveGraph(index int) (models.Graph, error) {
	c.mu.RLock()
	graph, ok := c.active[index]
	c.mu.RUnlock()
	if ok {
		return graph, nil
	}

	floor, err := c.Floor(index)
	if err != nil {
		return models.Graph{}, err
	}
	graph = floor.ActiveGraph()

	c.mu.Lock()
	c.active[index] = graph
	c.mu.Unlock()
	return graph, nil
}

// Summaries - 층 목록 요약
func (c *FloorCatalog) Summaries() []models.FloorSummary {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]models.FloorSummary, 0, len(c.floors))
	for i, f := range c.floors {
		out = append(out, models.FloorSummary{
			Index:       i,
			ID:          f.ID,
			Name:        f.Name,
			ShortName:   f.ShortName,
			Description: f.Description,
			PlanPath:    f.PlanPath,
			VertexCount: len(f.Graph.Vertices),
		})
	}
	return out
}

package services

import "indoor-nav-backend/models"

// categoryDoors - 숫자가 아닌 정보 포인트 → 문 정점 태그
var categoryDoors = map[string]string{
	"info_wc_male":   "Male WC",
	"info_wc_female": "Female WC",
}

// ResolveRoutableVertex - 선택한 항목을 실제 경로 계산에 쓸 정점 ID로 변환
//
// info_ 태그가 없으면 자기 자신, 있으면 같은 층에서 문 정점을 찾는다.
// 문 정점이 없으면 선택한 정점 ID를 그대로 돌려준다 (실패하지 않음).
func ResolveRoutableVertex(selected models.Vertex, g models.Graph) string {
	if !selected.IsInfoPoint() {
		return selected.ID
	}

	target, ok := categoryDoors[selected.ObjectName]
	if !ok {
		target = selected.InfoKey()
	}

	door, found := g.FindByObjectName(target)
	if !found || door.ID == "" {
		return selected.ID
	}
	return door.ID
}

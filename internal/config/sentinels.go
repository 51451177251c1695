package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Sentinel is one curated risk scenario. A cluster is eligible for a
// sentinel when at least MinGroupsHit of its keyword groups hit and every
// group named in RequiredGroups is among the hits.
type Sentinel struct {
	ID             string              `yaml:"id" json:"id"`
	Name           string              `yaml:"name" json:"name"`
	Category       string              `yaml:"category" json:"category"`
	MinGroupsHit   int                 `yaml:"min_groups_hit" json:"min_groups_hit"`
	RequiredGroups []string            `yaml:"required_groups,omitempty" json:"required_groups,omitempty"`
	KeywordGroups  map[string][]string `yaml:"keyword_groups" json:"keyword_groups"`
}

// sentinelFile is the on-disk catalog shape.
type sentinelFile struct {
	Sentinels []Sentinel `yaml:"sentinels"`
}

// LoadSentinels reads the sentinel catalog from a YAML file. A missing
// file (or empty path) returns the built-in catalog.
func LoadSentinels(path string) ([]Sentinel, error) {
	if path == "" {
		return DefaultSentinels(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSentinels(), nil
		}
		return nil, fmt.Errorf("read sentinel catalog: %w", err)
	}

	var file sentinelFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse sentinel catalog %s: %w", path, err)
	}
	if len(file.Sentinels) == 0 {
		return nil, fmt.Errorf("sentinel catalog %s: no sentinels defined", path)
	}

	for i, s := range file.Sentinels {
		if s.ID == "" {
			return nil, fmt.Errorf("sentinel catalog %s: sentinel %d has no id", path, i)
		}
		if len(s.KeywordGroups) == 0 {
			return nil, fmt.Errorf("sentinel catalog %s: sentinel %q has no keyword groups", path, s.ID)
		}
	}
	return file.Sentinels, nil
}

// DefaultSentinels returns the built-in catalog.
func DefaultSentinels() []Sentinel {
	return []Sentinel{
		{
			ID:           "taiwan_strait_military",
			Name:         "台海军事动态",
			Category:     "military",
			MinGroupsHit: 2,
			KeywordGroups: map[string][]string{
				"action": {
					"越线", "越線", "战备警巡", "戰備警巡", "实弹", "實彈",
					"封控", "拦截", "攔截", "演训", "演訓",
				},
				"geo": {
					"台海", "台湾海峡", "臺灣海峽", "东海", "東海",
					"巴士海峡", "巴士海峽",
				},
				"platform": {
					"航母", "导弹", "導彈", "舰机", "艦機", "战机", "戰機",
				},
			},
		},
		{
			ID:             "tech_export_controls",
			Name:           "科技出口管制",
			Category:       "tech",
			MinGroupsHit:   2,
			RequiredGroups: []string{"policy"},
			KeywordGroups: map[string][]string{
				"policy": {
					"实体清单", "實體清單", "许可", "許可", "最终规则",
					"最終規則", "出口管制",
				},
				"technology": {
					"ai芯片", "eda", "先进制程", "先進製程", "高端晶片", "高端芯片",
				},
				"enforcement": {
					"长臂", "長臂", "罚单", "罰單", "次级制裁", "次級制裁",
				},
			},
		},
		{
			ID:             "allied_exercises",
			Name:           "周边同盟军演",
			Category:       "military",
			MinGroupsHit:   2,
			RequiredGroups: []string{"alliance"},
			KeywordGroups: map[string][]string{
				"alliance": {
					"美日", "美韩", "美韓", "美菲", "aukus", "quad",
				},
				"intensity": {
					"实弹", "實彈", "反导", "反導", "跨域", "前沿部署",
				},
				"sensitive_area": {
					"台海", "臺海", "东海", "南海", "西太平洋",
					"第一岛链", "第一島鏈",
				},
			},
		},
	}
}

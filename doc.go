// Package cinerec 是一个面向影片库的按用户推荐引擎（Cinema Recommender）。
//
// 设计要点：
// - Pipeline-first: 一次运行拆成可组合的 Node 链（Recall → Filter → Classify → Assemble）
// - Labels-first: labels 全链路透传与标准化 merge，召回来源 / 档位归属均可 explain
// - 统计驱动: 画像来自历史影片的均值±标准差界、二项显著性检验与流派组合加权，
//   不依赖机器学习排序模型
package cinerec

import "github.com/rushteam/cinerec/pipeline"

// 轻量 facade：便于用户直接 import "cinerec" 使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindRecall      = pipeline.KindRecall
	KindFilter      = pipeline.KindFilter
	KindClassify    = pipeline.KindClassify
	KindAssemble    = pipeline.KindAssemble
	KindPostProcess = pipeline.KindPostProcess
)

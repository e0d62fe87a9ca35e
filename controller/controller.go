package controller

import (
	"rag-console-backend/service/auth"
	"rag-console-backend/service/chunks"
	"rag-console-backend/service/ingest"
	"rag-console-backend/service/rag"
)

var (
	ingestService *ingest.Service
	authService   *auth.Service

	// 未配置模型或向量库时为nil，对应接口返回503
	ragService   *rag.Service
	chunkService *chunks.Service
)

func Init(ingestSvc *ingest.Service, authSvc *auth.Service, ragSvc *rag.Service, chunkSvc *chunks.Service) {
	ingestService = ingestSvc
	authService = authSvc
	ragService = ragSvc
	chunkService = chunkSvc
}

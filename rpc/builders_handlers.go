package rpc

import (
	"strings"

	"morpheus/native/builders"
	"morpheus/observability/metrics"
)

type builderEntry struct {
	Name     string `json:"name"`
	Address  string `json:"address"`
	Source   string `json:"source"`
	Checksum string `json:"checksum"`
}

type mergedListResult struct {
	Builders []builderEntry `json:"builders"`
}

func (s *Server) handleBuildersMergedList(req *RPCRequest) (any, *RPCError) {
	if s.registry == nil {
		return nil, &RPCError{Code: codeServerError, Message: "builder registry not configured"}
	}
	merged, err := s.registry.Merged()
	if err != nil {
		return nil, &RPCError{Code: codeServerError, Message: err.Error()}
	}
	metrics.Calc().SetMergedBuilders(len(merged))
	entries := make([]builderEntry, len(merged))
	for i, b := range merged {
		entries[i] = builderEntry{
			Name:     b.Name,
			Address:  b.Address,
			Source:   sourceLabel(b.Source),
			Checksum: builders.Checksum(b),
		}
	}
	return mergedListResult{Builders: entries}, nil
}

type registerBuilderParams struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

type registerBuilderResult struct {
	Checksum string `json:"checksum"`
}

func (s *Server) handleBuildersRegister(req *RPCRequest) (any, *RPCError) {
	if s.registry == nil {
		return nil, &RPCError{Code: codeServerError, Message: "builder registry not configured"}
	}
	var params registerBuilderParams
	if rpcErr := decodeParams(req, &params); rpcErr != nil {
		return nil, rpcErr
	}
	if strings.TrimSpace(params.Name) == "" {
		return nil, &RPCError{Code: codeInvalidParams, Message: "name required"}
	}
	checksum, err := s.registry.RecordTemp(builders.Builder{Name: params.Name, Address: params.Address})
	if err != nil {
		return nil, &RPCError{Code: codeServerError, Message: err.Error()}
	}
	return registerBuilderResult{Checksum: checksum}, nil
}

func sourceLabel(source builders.Source) string {
	switch source {
	case builders.SourceOfficial:
		return "official"
	case builders.SourceLocalTemp:
		return "local-temp"
	}
	return "local"
}

package repositories

import (
	"github.com/apiarycd/reposync/internal/fetches"
	"github.com/apiarycd/reposync/internal/repository"
	"github.com/samber/lo"
)

func toResponse(view repository.View) RepositoryResponse {
	return RepositoryResponse{
		ID:   view.ID,
		Path: view.Path,

		Status:      string(view.Status),
		RemoteError: view.RemoteErrorPopup,
		Remotes: lo.Map(view.Remotes, func(r repository.Remote, _ int) RemoteResponse {
			return RemoteResponse{Name: r.Name, URLs: r.URLs}
		}),
		WatcherReady:   view.WatcherReady,
		HasAutoFetched: view.HasAutoFetched,
		Fetching:       view.Fetching,
		Progress:       string(view.Progress),

		ShowFetchButton: view.ShowFetchButton,
		ShowLog:         view.ShowLog,

		Graph: GraphResponse{
			Nodes: lo.Map(view.Graph.Nodes, func(n repository.Node, _ int) NodeResponse {
				return NodeResponse(n)
			}),
			ActiveBranch: view.Graph.ActiveBranch,
			HasRemotes:   view.Graph.HasRemotes,
			RemoteTags: lo.Map(view.Graph.RemoteTags, func(t repository.Tag, _ int) TagResponse {
				return TagResponse(t)
			}),
		},
		Staging: StagingResponse{
			Files: lo.Map(view.Staging.Files, func(f repository.FileStatus, _ int) FileResponse {
				return FileResponse(f)
			}),
			InRebase:       view.Staging.InRebase,
			InMerge:        view.Staging.InMerge,
			CommitTitle:    view.Staging.CommitTitle,
			CommitBody:     view.Staging.CommitBody,
			NewBranchName:  view.Staging.NewBranchName,
			DiffGeneration: view.Staging.DiffGeneration,
		},
		Review: lo.Map(view.Review, func(c repository.ReviewChange, _ int) ReviewChangeResponse {
			return ReviewChangeResponse(c)
		}),
	}
}

func toRecordResponse(record fetches.Record, _ int) FetchRecordResponse {
	return FetchRecordResponse{
		ID:          record.ID,
		Nodes:       record.Nodes,
		Tags:        record.Tags,
		Outcome:     string(record.Outcome),
		ErrorCode:   record.ErrorCode,
		Message:     record.Message,
		TagCount:    record.TagCount,
		StartedAt:   record.StartedAt,
		CompletedAt: record.CompletedAt,
	}
}

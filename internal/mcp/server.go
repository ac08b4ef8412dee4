// Package mcp exposes the workout data layer as MCP tools over stdio.
// Read-mostly: the only mutating tool is custom exercise creation.
// Session play stays in the interactive CLI, which owns the single
// in-memory session.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mvidal/gymbuddy/internal/catalog"
	"github.com/mvidal/gymbuddy/internal/history"
	"github.com/mvidal/gymbuddy/internal/models"
	"github.com/mvidal/gymbuddy/internal/repo"
)

// Server wraps the gymbuddy data layer and exposes it as MCP tools.
type Server struct {
	repo    *repo.Repository
	catalog *catalog.Catalog
	history *history.Store
}

// NewServer creates the MCP server wrapper over the core components.
func NewServer(r *repo.Repository, c *catalog.Catalog, h *history.Store) *Server {
	return &Server{repo: r, catalog: c, history: h}
}

// MCPServer returns a configured mcp-go server with all tools registered.
func (s *Server) MCPServer() *server.MCPServer {
	srv := server.NewMCPServer("gymbuddy", "1.0.0", server.WithToolCapabilities(true))

	srv.AddTool(s.listRoutinesTool())
	srv.AddTool(s.getRoutineTool())
	srv.AddTool(s.searchExercisesTool())
	srv.AddTool(s.addCustomExerciseTool())
	srv.AddTool(s.listHistoryTool())
	srv.AddTool(s.getWorkoutTool())

	return srv
}

// ServeStdio starts the stdio transport, blocking until ctx is cancelled.
func (s *Server) ServeStdio(ctx context.Context) error {
	srv := s.MCPServer()
	stdioServer := server.NewStdioServer(srv)
	return stdioServer.Listen(ctx, os.Stdin, os.Stdout)
}

// ---------------------------------------------------------------------------
// Tool definitions and handlers
// ---------------------------------------------------------------------------

// gym_list_routines
func (s *Server) listRoutinesTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("gym_list_routines",
		mcp.WithDescription("List all workout routines, most recently created first. Returns a JSON array with id, name, exercise count, total planned sets, and timestamps."),
	)
	return tool, s.handleListRoutines
}

func (s *Server) handleListRoutines(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	type routineOut struct {
		ID        string `json:"id"`
		Name      string `json:"name"`
		Exercises int    `json:"exercises"`
		TotalSets int    `json:"totalSets"`
		CreatedAt string `json:"createdAt"`
		UpdatedAt string `json:"updatedAt"`
	}

	routines := s.repo.List()
	out := make([]routineOut, len(routines))
	for i, r := range routines {
		out[i] = routineOut{
			ID:        r.ID,
			Name:      r.Name,
			Exercises: len(r.Exercises),
			TotalSets: r.TotalSets(),
			CreatedAt: r.CreatedAt.Format("2006-01-02 15:04"),
			UpdatedAt: r.UpdatedAt.Format("2006-01-02 15:04"),
		}
	}

	data, err := json.Marshal(out)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal routines: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// gym_get_routine
func (s *Server) getRoutineTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("gym_get_routine",
		mcp.WithDescription("Get one routine with its exercises and planned sets. Resolves the routine by name or id."),
		mcp.WithString("routine", mcp.Required(), mcp.Description("Routine name or id")),
	)
	return tool, s.handleGetRoutine
}

func (s *Server) handleGetRoutine(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	nameOrID, err := request.RequireString("routine")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: routine"), nil
	}

	r, err := s.resolveRoutine(nameOrID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	type setOut struct {
		ID     string  `json:"id"`
		Reps   int     `json:"reps"`
		Weight float64 `json:"weight"`
	}
	type exerciseOut struct {
		ID       string   `json:"id"`
		Name     string   `json:"name"`
		BodyPart string   `json:"bodyPart"`
		Sets     []setOut `json:"sets"`
	}

	out := struct {
		ID        string        `json:"id"`
		Name      string        `json:"name"`
		Exercises []exerciseOut `json:"exercises"`
	}{ID: r.ID, Name: r.Name, Exercises: []exerciseOut{}}

	for _, re := range r.Exercises {
		eo := exerciseOut{ID: re.ID, Name: "Unknown exercise", Sets: []setOut{}}
		if ex, ok := s.catalog.Resolve(re.ExerciseRef); ok {
			eo.Name = ex.Name
			eo.BodyPart = ex.BodyPart
		}
		for _, set := range re.Sets {
			eo.Sets = append(eo.Sets, setOut{ID: set.ID, Reps: set.Reps, Weight: set.Weight})
		}
		out.Exercises = append(out.Exercises, eo)
	}

	data, err := json.Marshal(out)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal routine: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// gym_search_exercises
func (s *Server) searchExercisesTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("gym_search_exercises",
		mcp.WithDescription("Search the exercise catalog (seed library plus custom exercises) by name substring and body part."),
		mcp.WithString("query", mcp.Description("Case-insensitive name substring")),
		mcp.WithString("body_part", mcp.Description("Body part label filter, e.g. Legs, Back, Chest")),
	)
	return tool, s.handleSearchExercises
}

func (s *Server) handleSearchExercises(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := request.GetString("query", "")
	bodyPart := request.GetString("body_part", "")

	results := s.catalog.Search(query, bodyPart)
	data, err := json.Marshal(results)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal exercises: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// gym_add_custom_exercise
func (s *Server) addCustomExerciseTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("gym_add_custom_exercise",
		mcp.WithDescription("Create a custom exercise in the catalog. Only the name is required; body part defaults to Uncategorized."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Exercise name")),
		mcp.WithString("body_part", mcp.Description("Body part label")),
		mcp.WithString("primary_muscles", mcp.Description("Primary muscles")),
		mcp.WithString("secondary_muscles", mcp.Description("Secondary muscles")),
		mcp.WithString("equipment", mcp.Description("Required equipment")),
	)
	return tool, s.handleAddCustomExercise
}

func (s *Server) handleAddCustomExercise(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: name"), nil
	}

	ex, err := s.catalog.AddCustom(ctx, catalog.CustomExercisePayload{
		Name:             name,
		BodyPart:         request.GetString("body_part", ""),
		PrimaryMuscles:   request.GetString("primary_muscles", ""),
		SecondaryMuscles: request.GetString("secondary_muscles", ""),
		Equipment:        request.GetString("equipment", ""),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to create exercise: %v", err)), nil
	}

	data, err := json.Marshal(ex)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal exercise: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// gym_list_history
func (s *Server) listHistoryTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("gym_list_history",
		mcp.WithDescription("List finished workout sessions, newest first, with completed/total set counts and lifted volume."),
	)
	return tool, s.handleListHistory
}

func (s *Server) handleListHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	type workoutOut struct {
		ID         string  `json:"id"`
		Routine    string  `json:"routine"`
		StartedAt  string  `json:"startedAt"`
		FinishedAt string  `json:"finishedAt"`
		Completed  int     `json:"completedSets"`
		Total      int     `json:"totalSets"`
		VolumeKg   float64 `json:"volumeKg"`
	}

	workouts := s.history.List()
	out := make([]workoutOut, len(workouts))
	for i, w := range workouts {
		completed, total, volume := history.Stats(w)
		out[i] = workoutOut{
			ID:        w.ID,
			Routine:   w.RoutineName,
			StartedAt: w.StartedAt.Format("2006-01-02 15:04"),
			Completed: completed,
			Total:     total,
			VolumeKg:  volume,
		}
		if w.FinishedAt != nil {
			out[i].FinishedAt = w.FinishedAt.Format("2006-01-02 15:04")
		}
	}

	data, err := json.Marshal(out)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal history: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// gym_get_workout
func (s *Server) getWorkoutTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("gym_get_workout",
		mcp.WithDescription("Get one finished workout session by id, including per-set reps, weight, and completion."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Workout id")),
	)
	return tool, s.handleGetWorkout
}

func (s *Server) handleGetWorkout(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: id"), nil
	}

	w, err := s.history.Get(id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	data, err := json.Marshal(w)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal workout: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// resolveRoutine finds a routine by name first, then by id.
func (s *Server) resolveRoutine(nameOrID string) (*models.Routine, error) {
	r, err := s.repo.GetByName(nameOrID)
	if err == nil {
		return r, nil
	}
	r, err = s.repo.Get(nameOrID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, fmt.Errorf("routine not found: %s", nameOrID)
		}
		return nil, err
	}
	return r, nil
}

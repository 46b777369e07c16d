package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"issue-workflow-api/internal/domain"
	"issue-workflow-api/internal/handler"
	"issue-workflow-api/internal/metrics"
	"issue-workflow-api/internal/middleware"
	"issue-workflow-api/internal/repository"
	"issue-workflow-api/internal/service"
)

// AdminRole is the token role required by the management routes
const AdminRole domain.Role = "admin"

// Config holds router configuration
type Config struct {
	DB     *gorm.DB
	Redis  *redis.Client
	Logger *zap.Logger

	// Cache is built from DB and Redis when nil
	Cache    *repository.GraphCache
	CacheTTL time.Duration

	JWTSecret string
	// TokenValidator checks tokens with the auth service; JWTSecret is used when nil
	TokenValidator middleware.TokenValidator

	BasePath       string
	AllowedOrigins []string
	Metrics        *metrics.Metrics
	// Gatherer backs /metrics; the default registry when nil
	Gatherer prometheus.Gatherer
}

// Setup sets up the router with all routes
func Setup(cfg Config) *gin.Engine {
	r := gin.New()

	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}

	metricsHandler := gin.WrapH(promhttp.Handler())
	if cfg.Gatherer != nil {
		metricsHandler = gin.WrapH(promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}
	r.GET("/metrics", metricsHandler)
	if cfg.BasePath != "" {
		r.GET(cfg.BasePath+"/metrics", metricsHandler)
	}

	var pinger handler.RedisPinger
	if cfg.Redis != nil {
		pinger = cfg.Redis
	}
	healthHandler := handler.NewHealthHandler(cfg.DB, pinger)
	r.GET("/health", healthHandler.Health)
	r.GET("/ready", healthHandler.Ready)

	api := r.Group(cfg.BasePath)
	api.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Repositories
	projectRepo := repository.NewProjectRepository(cfg.DB)
	templateRepo := repository.NewTemplateRepository(cfg.DB)
	stateRepo := repository.NewStateRepository(cfg.DB)
	fieldRepo := repository.NewFieldRepository(cfg.DB)
	listItemRepo := repository.NewListItemRepository(cfg.DB)
	groupRepo := repository.NewGroupRepository(cfg.DB)
	permissionRepo := repository.NewPermissionRepository(cfg.DB)
	issueRepo := repository.NewIssueRepository(cfg.DB)

	cache := cfg.Cache
	if cache == nil {
		cache = repository.NewGraphCache(repository.NewSnapshotRepository(cfg.DB), cfg.Redis, cfg.CacheTTL, cfg.Metrics, cfg.Logger)
	}

	// Services
	projectService := service.NewProjectService(projectRepo, templateRepo, cfg.Logger)
	templateService := service.NewTemplateService(templateRepo, projectRepo, stateRepo, issueRepo, cache, cfg.Logger)
	stateService := service.NewStateService(stateRepo, templateRepo, groupRepo, permissionRepo, cache, cfg.Logger)
	fieldService := service.NewFieldService(fieldRepo, stateRepo, templateRepo, listItemRepo, cache, cfg.Logger)
	listItemService := service.NewListItemService(listItemRepo, fieldRepo, stateRepo, templateRepo, cache, cfg.Logger)
	groupService := service.NewGroupService(groupRepo, projectRepo, cache, cfg.Logger)
	permissionService := service.NewPermissionService(permissionRepo, templateRepo, stateRepo, fieldRepo, groupRepo, cache, cfg.Logger)
	issueService := service.NewIssueService(issueRepo, groupRepo, cache, cfg.Metrics, cfg.Logger)

	// Handlers
	projectHandler := handler.NewProjectHandler(projectService, templateService, groupService)
	templateHandler := handler.NewTemplateHandler(templateService, stateService, permissionService)
	stateHandler := handler.NewStateHandler(stateService, fieldService)
	fieldHandler := handler.NewFieldHandler(fieldService, permissionService)
	listItemHandler := handler.NewListItemHandler(listItemService)
	groupHandler := handler.NewGroupHandler(groupService)
	issueHandler := handler.NewIssueHandler(issueService)

	var authMiddleware gin.HandlerFunc
	if cfg.TokenValidator != nil {
		authMiddleware = middleware.AuthWithValidator(cfg.TokenValidator)
	} else {
		authMiddleware = middleware.Auth(cfg.JWTSecret)
	}
	admin := middleware.RequireRole(AdminRole)

	api.Use(authMiddleware)

	// ============================================================
	// Project routes
	// ============================================================
	projects := api.Group("/projects")
	{
		projects.GET("", projectHandler.ListProjects)
		projects.GET("/:projectId", projectHandler.GetProject)
		projects.GET("/:projectId/templates", projectHandler.ListTemplates)
		projects.GET("/:projectId/groups", projectHandler.ListGroups)

		projects.POST("", admin, projectHandler.CreateProject)
		projects.PUT("/:projectId", admin, projectHandler.UpdateProject)
		projects.DELETE("/:projectId", admin, projectHandler.DeleteProject)
	}

	// ============================================================
	// Template routes
	// ============================================================
	templates := api.Group("/templates")
	{
		templates.GET("/:templateId", templateHandler.GetTemplate)
		templates.GET("/:templateId/states", templateHandler.ListStates)
		templates.GET("/:templateId/issues", issueHandler.ListIssues)

		templates.POST("", admin, templateHandler.CreateTemplate)
		templates.PUT("/:templateId", admin, templateHandler.UpdateTemplate)
		templates.DELETE("/:templateId", admin, templateHandler.DeleteTemplate)
		templates.POST("/:templateId/lock", admin, templateHandler.LockTemplate)
		templates.POST("/:templateId/unlock", admin, templateHandler.UnlockTemplate)

		templates.GET("/:templateId/permissions", admin, templateHandler.GetPermissions)
		templates.PUT("/:templateId/permissions/roles", admin, templateHandler.SetRolePermission)
		templates.PUT("/:templateId/permissions/groups", admin, templateHandler.SetGroupPermission)
	}

	// ============================================================
	// State routes
	// ============================================================
	states := api.Group("/states")
	{
		states.GET("/:stateId", stateHandler.GetState)
		states.GET("/:stateId/transitions", stateHandler.ListTransitions)
		states.GET("/:stateId/fields", stateHandler.ListFields)

		states.POST("", admin, stateHandler.CreateState)
		states.PUT("/:stateId", admin, stateHandler.UpdateState)
		states.DELETE("/:stateId", admin, stateHandler.DeleteState)
		states.PUT("/:stateId/responsible-groups", admin, stateHandler.SetResponsibleGroups)
		states.PUT("/:stateId/transitions/:toStateId", admin, stateHandler.SetTransition)
	}

	// ============================================================
	// Field routes
	// ============================================================
	fields := api.Group("/fields")
	{
		fields.GET("/:fieldId", fieldHandler.GetField)
		fields.GET("/:fieldId/items", listItemHandler.ListListItems)

		fields.POST("", admin, fieldHandler.CreateField)
		fields.POST("/validate-config", admin, fieldHandler.ValidateConfig)
		fields.PUT("/:fieldId", admin, fieldHandler.UpdateField)
		fields.PUT("/:fieldId/position", admin, fieldHandler.SetFieldPosition)
		fields.DELETE("/:fieldId", admin, fieldHandler.RemoveField)
		fields.POST("/:fieldId/items", admin, listItemHandler.CreateListItem)

		fields.GET("/:fieldId/permissions", admin, fieldHandler.GetPermissions)
		fields.PUT("/:fieldId/permissions/roles", admin, fieldHandler.SetRolePermission)
		fields.PUT("/:fieldId/permissions/groups", admin, fieldHandler.SetGroupPermission)
	}

	listItems := api.Group("/list-items", admin)
	{
		listItems.PUT("/:itemId", listItemHandler.UpdateListItem)
		listItems.DELETE("/:itemId", listItemHandler.DeleteListItem)
	}

	// ============================================================
	// Group routes
	// ============================================================
	groups := api.Group("/groups", admin)
	{
		groups.GET("", groupHandler.ListGroups)
		groups.POST("", groupHandler.CreateGroup)
		groups.GET("/:groupId", groupHandler.GetGroup)
		groups.PUT("/:groupId", groupHandler.UpdateGroup)
		groups.DELETE("/:groupId", groupHandler.DeleteGroup)
		groups.POST("/:groupId/members", groupHandler.AddMembers)
		groups.DELETE("/:groupId/members", groupHandler.RemoveMembers)
	}

	// ============================================================
	// Issue routes (permission checks happen per issue)
	// ============================================================
	issues := api.Group("/issues")
	{
		issues.POST("", issueHandler.CreateIssue)
		issues.GET("/:issueId", issueHandler.GetIssue)
		issues.PUT("/:issueId", issueHandler.UpdateIssue)
		issues.POST("/:issueId/state", issueHandler.ChangeState)
		issues.GET("/:issueId/transitions", issueHandler.GetAvailableTransitions)
	}

	return r
}

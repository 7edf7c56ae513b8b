// @title           AgroPro API
// @version         1.0
// @description     Agriculture chat assistant with document-grounded answers. Chat is synchronous; document ingestion runs as background jobs.

// @contact.name    API Support

// @license.name    Apache 2.0
// @license.url     http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:3000
// @BasePath  /
// @schemes   http https
package utils

//run redis
//docker run -p 6379:6379 -d redis

//run qdrant
//docker run -p 6333:6333 -p 6334:6334 -v vectorDBData:/qdrant/storage qdrant/qdrant

//swagger init
//swag init -g cmd/agropro/main.go --parseDependency --parseInternal --dir ./ --output ./cmd/agropro/docs

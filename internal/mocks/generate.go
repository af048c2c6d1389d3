package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/match --output domain/match --outpkg matchmock --filename repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name LogWriter --dir ../domain/match --output domain/match --outpkg matchmock --filename log_writer_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name SourceDiscoverer --dir ../usecase --output usecase --outpkg usecasemock --filename source_discoverer_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name RecordExtractor --dir ../usecase --output usecase --outpkg usecasemock --filename record_extractor_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name WindowLogReader --dir ../usecase --output usecase --outpkg usecasemock --filename window_log_reader_mock.go

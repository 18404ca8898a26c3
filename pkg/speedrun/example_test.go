package speedrun_test

import (
	"context"
	"fmt"
	"log"

	"github.com/speedrun-go/speedrun-client/pkg/request"
	"github.com/speedrun-go/speedrun-client/pkg/speedrun"
)

func ExampleNewAPI() {
	ctx := context.TODO()

	// Create API
	api := speedrun.NewAPI(speedrun.WithUserAgent("my-app/1.0"))

	// Build request
	endpoint, err := speedrun.NewLeaderboardBuilder().
		Game("xldev513").
		Category("rklg3rdn").
		Timing(speedrun.TimingRealtime).
		BuildFullGame()
	if err != nil {
		log.Fatal(err)
	}

	// Send request
	leaderboard, err := api.FullGameLeaderboardRequest(endpoint).Send(ctx)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("%#v", leaderboard)
}

func Example_paginate() {
	ctx := context.TODO()
	api := speedrun.NewAPI()

	endpoint, err := speedrun.NewListGamesBuilder().Name("mario").Build()
	if err != nil {
		log.Fatal(err)
	}

	// Pages are fetched lazily, the iteration can be stopped at any time
	for game, err := range request.Paginate[speedrun.Game](endpoint, api.Sender(), request.WithLimit(50)).All(ctx) {
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(game.Names.International)
	}
}

func Example_async() {
	ctx := context.TODO()
	api := speedrun.NewAPI(speedrun.WithConcurrencyLimit(4))

	// Send requests concurrently
	var futures []*request.Future[speedrun.Game]
	for _, id := range []string{"sm64", "smo", "sms"} {
		endpoint, err := speedrun.NewGetGameBuilder().ID(id).Build()
		if err != nil {
			log.Fatal(err)
		}
		futures = append(futures, request.ExecuteAsync[speedrun.Game](ctx, endpoint, api.AsyncSender()))
	}

	// Await results
	for _, future := range futures {
		game, err := future.Await(ctx)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(game.Names.International)
	}
}

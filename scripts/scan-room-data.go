package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/redis/go-redis/v9"

	"github.com/Zevankai/Equipment-Tool/internal/entities"
	"github.com/Zevankai/Equipment-Tool/internal/entities/equipment"
)

// finding is one broken key and what is wrong with it
type finding struct {
	key    string
	reason string
	// index is the room index the record should be removed from, if known
	index string
	id    string
}

func main() {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Fatal("Failed to parse Redis URL:", err)
	}

	client := redis.NewClient(opt)
	ctx := context.Background()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}

	fmt.Println("Connected to Redis:", redisURL)
	fmt.Println("Scanning character records...")

	var findings []finding
	var checkedCount int

	iter := client.Scan(ctx, 0, "character:*", 0).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		checkedCount++

		data, err := client.Get(ctx, key).Result()
		if err != nil {
			fmt.Printf("Error reading %s: %v\n", key, err)
			continue
		}

		var rec entities.CharacterRecord
		if err := json.Unmarshal([]byte(data), &rec); err != nil {
			fmt.Printf("✗ Corrupted JSON in %s\n", key)
			findings = append(findings, finding{key: key, reason: "record is not JSON"})
			continue
		}

		index := "room:" + rec.RoomID + ":characters"
		if key != "character:"+rec.RoomID+":"+rec.CharacterID {
			fmt.Printf("✗ %s holds a record for %s/%s\n", key, rec.RoomID, rec.CharacterID)
			findings = append(findings, finding{key: key, reason: "key does not match record"})
			continue
		}

		if _, err := equipment.UnmarshalSnapshot(rec.Data); err != nil {
			fmt.Printf("✗ Unreadable equipment payload in %s: %v\n", key, err)
			findings = append(findings, finding{key: key, reason: "payload is not a snapshot", index: index, id: rec.CharacterID})
			continue
		}

		member, err := client.SIsMember(ctx, index, rec.CharacterID).Result()
		if err != nil {
			fmt.Printf("Error reading %s: %v\n", index, err)
			continue
		}
		if !member {
			fmt.Printf("⚠️  %s is missing from %s, re-adding\n", key, index)
			if err := client.SAdd(ctx, index, rec.CharacterID).Err(); err != nil {
				fmt.Printf("Failed to repair %s: %v\n", index, err)
			}
		}
	}

	if err := iter.Err(); err != nil {
		log.Fatal("Error during scan:", err)
	}

	fmt.Printf("\nChecked %d keys, found %d broken entries\n", checkedCount, len(findings))

	if len(findings) == 0 {
		fmt.Println("No broken records found!")
		return
	}

	fmt.Println("\nBroken keys:")
	for _, f := range findings {
		fmt.Printf("  - %s (%s)\n", f.key, f.reason)
	}

	fmt.Print("\nDo you want to DELETE these entries? (yes/no): ")
	var response string
	_, _ = fmt.Scanln(&response)

	if response != "yes" {
		fmt.Println("Aborted - no changes made")
		return
	}

	for _, f := range findings {
		pipe := client.TxPipeline()
		pipe.Del(ctx, f.key)
		if f.index != "" {
			pipe.SRem(ctx, f.index, f.id)
		}
		if _, err := pipe.Exec(ctx); err != nil {
			fmt.Printf("Failed to delete %s: %v\n", f.key, err)
			continue
		}
		fmt.Printf("Deleted %s\n", f.key)
	}
	fmt.Println("\nCleanup complete!")
}
